package brd

// Optimistic mutators. Each is a pure function of (snapshot, args): the
// input snapshot is never modified, and an id that matches nothing
// returns the input unchanged. The reconciler applies these before the
// corresponding network call goes out.

// SetConfirmation sets the confirmation status on the matching entity.
// Unknown entity types and unmatched ids leave the snapshot unchanged.
func SetConfirmation(s WorkspaceSnapshot, entityType EntityType, id string, status ConfirmationStatus) WorkspaceSnapshot {
	if _, ok := AllowedStatuses[status]; !ok {
		return s
	}
	switch entityType {
	case TypeFeature:
		group, ok := s.FeatureGroup(id)
		if !ok {
			return s
		}
		out := s.Clone()
		setFeatureStatus(&out.Requirements, group, id, status)
		return out
	case TypeActor:
		for i, a := range s.Actors {
			if a.ID == id {
				out := s.Clone()
				out.Actors[i].ConfirmationStatus = status
				return out
			}
		}
	case TypeWorkflow:
		for i, w := range s.Workflows {
			if w.ID == id {
				out := s.Clone()
				out.Workflows[i].ConfirmationStatus = status
				return out
			}
		}
	case TypeConstraint:
		for i, c := range s.Constraints {
			if c.ID == id {
				out := s.Clone()
				out.Constraints[i].ConfirmationStatus = status
				return out
			}
		}
	case TypeDataEntity:
		for i, d := range s.DataEntities {
			if d.ID == id {
				out := s.Clone()
				out.DataEntities[i].ConfirmationStatus = status
				return out
			}
		}
	case TypeStakeholder:
		for i, st := range s.Stakeholders {
			if st.ID == id {
				out := s.Clone()
				out.Stakeholders[i].ConfirmationStatus = status
				return out
			}
		}
	}
	return s
}

func setFeatureStatus(r *Requirements, group PriorityGroup, id string, status ConfirmationStatus) {
	list := r.group(group)
	for i := range list {
		if list[i].ID == id {
			list[i].ConfirmationStatus = status
			return
		}
	}
}

func (r *Requirements) group(g PriorityGroup) []Feature {
	switch g {
	case GroupMustHave:
		return r.MustHave
	case GroupShouldHave:
		return r.ShouldHave
	case GroupCouldHave:
		return r.CouldHave
	case GroupOutOfScope:
		return r.OutOfScope
	}
	return nil
}

func (r *Requirements) setGroup(g PriorityGroup, list []Feature) {
	switch g {
	case GroupMustHave:
		r.MustHave = list
	case GroupShouldHave:
		r.ShouldHave = list
	case GroupCouldHave:
		r.CouldHave = list
	case GroupOutOfScope:
		r.OutOfScope = list
	}
}

// Confirm marks the entity as confirmed by the consultant.
func Confirm(s WorkspaceSnapshot, entityType EntityType, id string) WorkspaceSnapshot {
	return SetConfirmation(s, entityType, id, StatusConfirmedConsultant)
}

// MarkNeedsReview sends the entity back to the client for review.
func MarkNeedsReview(s WorkspaceSnapshot, entityType EntityType, id string) WorkspaceSnapshot {
	return SetConfirmation(s, entityType, id, StatusNeedsClient)
}

// ConfirmAll applies the status to every listed id in one derived
// snapshot. Ids that match nothing are skipped.
func ConfirmAll(s WorkspaceSnapshot, entityType EntityType, ids []string, status ConfirmationStatus) WorkspaceSnapshot {
	out := s
	for _, id := range ids {
		out = SetConfirmation(out, entityType, id, status)
	}
	return out
}

// MovePriority moves a feature to the target MoSCoW group, appending it
// at the end. Moving a feature to the group it is already in, or moving
// an unknown feature, leaves the snapshot unchanged.
func MovePriority(s WorkspaceSnapshot, featureID string, target PriorityGroup) WorkspaceSnapshot {
	if _, ok := AllowedGroups[target]; !ok {
		return s
	}
	current, ok := s.FeatureGroup(featureID)
	if !ok || current == target {
		return s
	}
	out := s.Clone()
	from := out.Requirements.group(current)
	var moved Feature
	for i, f := range from {
		if f.ID == featureID {
			moved = f
			out.Requirements.setGroup(current, append(from[:i:i], from[i+1:]...))
			break
		}
	}
	out.Requirements.setGroup(target, append(out.Requirements.group(target), moved))
	return out
}

// UpdateVision replaces the project vision statement.
func UpdateVision(s WorkspaceSnapshot, text string) WorkspaceSnapshot {
	out := s.Clone()
	out.BusinessContext.Vision = text
	return out
}

// UpdateBackground replaces the project background.
func UpdateBackground(s WorkspaceSnapshot, text string) WorkspaceSnapshot {
	out := s.Clone()
	out.BusinessContext.Background = text
	return out
}

// UpdateCanvasRole sets the canvas role on the matching persona.
// RoleNone clears it.
func UpdateCanvasRole(s WorkspaceSnapshot, personaID string, role CanvasRole) WorkspaceSnapshot {
	for i, a := range s.Actors {
		if a.ID == personaID {
			out := s.Clone()
			out.Actors[i].CanvasRole = role
			return out
		}
	}
	return s
}

// SetQuestionStatus moves an open question to answered or dismissed.
func SetQuestionStatus(s WorkspaceSnapshot, questionID string, status QuestionStatus) WorkspaceSnapshot {
	for i, q := range s.OpenQuestions {
		if q.ID == questionID {
			out := s.Clone()
			out.OpenQuestions[i].Status = status
			return out
		}
	}
	return s
}
