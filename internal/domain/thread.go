package domain

import "time"

// ThreadStatus enumerates lifecycle states for message threads.
type ThreadStatus string

const (
	ThreadStatusOpen       ThreadStatus = "OPEN"
	ThreadStatusInProgress ThreadStatus = "IN_PROGRESS"
	ThreadStatusResolved   ThreadStatus = "RESOLVED"
	ThreadStatusClosed     ThreadStatus = "CLOSED"
)

// ThreadPriority enumerates urgency levels.
type ThreadPriority string

const (
	ThreadPriorityLow    ThreadPriority = "LOW"
	ThreadPriorityMedium ThreadPriority = "MEDIUM"
	ThreadPriorityHigh   ThreadPriority = "HIGH"
	ThreadPriorityUrgent ThreadPriority = "URGENT"
)

// ThreadFolder enumerates mailbox folders a thread can live in.
type ThreadFolder string

const (
	ThreadFolderInbox   ThreadFolder = "INBOX"
	ThreadFolderSent    ThreadFolder = "SENT"
	ThreadFolderTrash   ThreadFolder = "TRASH"
	ThreadFolderArchive ThreadFolder = "ARCHIVE"
	ThreadFolderSpam    ThreadFolder = "SPAM"
)

var threadStatuses = map[ThreadStatus]struct{}{
	ThreadStatusOpen:       {},
	ThreadStatusInProgress: {},
	ThreadStatusResolved:   {},
	ThreadStatusClosed:     {},
}

var threadPriorities = map[ThreadPriority]struct{}{
	ThreadPriorityLow:    {},
	ThreadPriorityMedium: {},
	ThreadPriorityHigh:   {},
	ThreadPriorityUrgent: {},
}

var threadFolders = map[ThreadFolder]struct{}{
	ThreadFolderInbox:   {},
	ThreadFolderSent:    {},
	ThreadFolderTrash:   {},
	ThreadFolderArchive: {},
	ThreadFolderSpam:    {},
}

// IsValid reports membership in the status domain.
func (s ThreadStatus) IsValid() bool {
	_, ok := threadStatuses[s]
	return ok
}

// IsValid reports membership in the priority domain.
func (p ThreadPriority) IsValid() bool {
	_, ok := threadPriorities[p]
	return ok
}

// IsValid reports membership in the folder domain.
func (f ThreadFolder) IsValid() bool {
	_, ok := threadFolders[f]
	return ok
}

// ThreadStatuses lists valid status values.
func ThreadStatuses() []ThreadStatus {
	return []ThreadStatus{ThreadStatusOpen, ThreadStatusInProgress, ThreadStatusResolved, ThreadStatusClosed}
}

// ThreadPriorities lists valid priority values.
func ThreadPriorities() []ThreadPriority {
	return []ThreadPriority{ThreadPriorityLow, ThreadPriorityMedium, ThreadPriorityHigh, ThreadPriorityUrgent}
}

// ThreadFolders lists valid folder values.
func ThreadFolders() []ThreadFolder {
	return []ThreadFolder{ThreadFolderInbox, ThreadFolderSent, ThreadFolderTrash, ThreadFolderArchive, ThreadFolderSpam}
}

// Label tags a thread for triage.
type Label struct {
	ID    int64
	Name  string
	Color string
}

// MessageAttachment stores metadata for files attached to a thread message.
type MessageAttachment struct {
	ID        int64
	MessageID int64
	FileName  string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}

// ThreadMessage is one entry in a thread conversation.
type ThreadMessage struct {
	ID          int64
	ThreadID    int64
	SenderName  string
	SenderEmail string
	Body        string
	Attachments []MessageAttachment
	CreatedAt   time.Time
}

// MessageThread is the support conversation container.
type MessageThread struct {
	ID            int64
	Subject       string
	Status        ThreadStatus
	Priority      ThreadPriority
	Folder        ThreadFolder
	Read          bool
	PrivateNote   *string
	AssignedAdmin *string
	Labels        []Label
	Conversation  []ThreadMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
