package commands

import (
	"os"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/evidence"
	"scopeline/workbench/internal/printer"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <entity-type> <file>",
	Short: "Upload an evidence file for a BRD entity",
	Long: `Upload stores a supporting file, such as a screenshot or client
document, in the configured object storage bucket. Requires
MINIO_ENDPOINT and credentials to be set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType, err := parseEntityType(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.MinioEndpoint == "" {
			return printer.Error("evidence storage not configured: set MINIO_ENDPOINT")
		}
		svc, err := evidence.NewService(evidence.Config{
			Endpoint:  rt.cfg.MinioEndpoint,
			AccessKey: rt.cfg.MinioAccessKey,
			SecretKey: rt.cfg.MinioSecretKey,
			Bucket:    rt.cfg.MinioBucket,
			UseSSL:    rt.cfg.MinioUseSSL,
		}, rt.log)
		if err != nil {
			return printer.Error("evidence storage: %v", err)
		}
		if err := svc.EnsureBucket(cmd.Context()); err != nil {
			return printer.Error("evidence bucket: %v", err)
		}

		file, err := os.Open(args[1])
		if err != nil {
			return printer.Error("open file: %v", err)
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			return printer.Error("stat file: %v", err)
		}

		upload, err := svc.Store(cmd.Context(), projectID, entityType, args[1], file, info.Size())
		if err != nil {
			return printer.Error("upload failed: %v", err)
		}
		printer.Success("stored %s as %s (%s, %d bytes)", upload.Filename, upload.Key, upload.ContentType, upload.Size)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
