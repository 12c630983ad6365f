package models

import "time"

// Feedback is submitted by end users of the mobile app; the admin console
// only reads it. Name and email are optional.
type Feedback struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UID       string    `bson:"uid,omitempty" json:"uid,omitempty"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Message   string    `bson:"message" json:"message"`
	Rating    int       `bson:"rating" json:"rating"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// FAQ entries are fully managed by admins from the Feedback page.
type FAQ struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Question  string    `bson:"question" json:"question"`
	Answer    string    `bson:"answer" json:"answer"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ConversationLog is one prompt/response exchange recorded by the
// conversational feature, keyed by the owning user's uid. Read-only here.
type ConversationLog struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UID       string    `bson:"uid" json:"uid"`
	Prompt    string    `bson:"prompt" json:"prompt"`
	Response  string    `bson:"response" json:"response"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// AdminAction is an append-only audit record written by the add-admin flow.
type AdminAction struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	AdminID    string    `bson:"adminId" json:"adminId"`
	AdminName  string    `bson:"adminName" json:"adminName"`
	Action     string    `bson:"action" json:"action"`
	TargetUser string    `bson:"targetUser" json:"targetUser"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}
