package model

// Statuses move forward only. The transition tables below are the single
// source of truth; the orchestrator rejects anything else.

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestDraft:           {RequestPendingApproval, RequestArchived},
	RequestPendingApproval: {RequestApproved, RequestRejected, RequestPendingRevision},
	RequestPendingRevision: {RequestPendingApproval, RequestArchived},
	RequestApproved:        {RequestScheduled, RequestArchived},
	RequestScheduled:       {RequestArchived},
	RequestRejected:        {RequestArchived},
	RequestArchived:        {},
}

var eventTransitions = map[EventStatus][]EventStatus{
	EventScheduled:  {EventInProgress, EventCancelled, EventPostponed},
	EventInProgress: {EventCompleted, EventCancelled, EventPostponed},
	EventPostponed:  {EventScheduled, EventCancelled},
	EventCompleted:  {},
	EventCancelled:  {},
}

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentAssigned:   {AssignmentAccepted, AssignmentDeclined, AssignmentCancelled},
	AssignmentAccepted:   {AssignmentInProgress, AssignmentDeclined, AssignmentCancelled},
	AssignmentInProgress: {AssignmentCompleted, AssignmentCancelled},
	AssignmentCompleted:  {},
	AssignmentDeclined:   {},
	AssignmentCancelled:  {},
}

// CanTransitionTo reports whether the request status machine permits the move
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, t := range requestTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible
func (s RequestStatus) Terminal() bool {
	return len(requestTransitions[s]) == 0
}

// CanTransitionTo reports whether the event status machine permits the move
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, t := range eventTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible
func (s EventStatus) Terminal() bool {
	return len(eventTransitions[s]) == 0
}

// CanTransitionTo reports whether the assignment status machine permits the move
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	for _, t := range assignmentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible
func (s AssignmentStatus) Terminal() bool {
	return len(assignmentTransitions[s]) == 0
}

// ActiveEvent reports whether the event status makes it a conflict candidate
func (s EventStatus) ActiveEvent() bool {
	return s == EventScheduled || s == EventInProgress
}
