package models

// Notification is an outbound email.
type Notification struct {
	ID        string
	Subject   string
	Recipient string
	Body      string
}
