package domain

// Link is a grounding citation returned alongside a gateway reply.
type Link struct {
	Title  string
	URI    string
	Source LinkSource
}

// Message is one entry of a chat history. Never mutated once appended.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Role      Role
	Content   string
	CreatedAt Timestamp

	GroundingLinks []Link
}

// Session is the metadata record of one connected dashboard (a device tab).
type Session struct {
	ID        SessionID
	CreatedAt Timestamp
	UpdatedAt Timestamp
	Title     string
}
