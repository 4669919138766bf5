package event

import "strings"

// Operations carried by a UserEvent.
const (
	OperationCreate = "CREATE"
	OperationUpdate = "UPDATE"
	OperationDelete = "DELETE"
)

// DefaultLanguage is used when an event does not name one.
const DefaultLanguage = "en"

// UserEvent is the user lifecycle message exchanged between the user service
// and the notification service, over RabbitMQ and over REST. It has no
// binding rules; missing or unknown operations are left to the consumer.
type UserEvent struct {
	Operation string `json:"operation"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Language  string `json:"language"`
}

func NewCreated(email, username, language string) UserEvent {
	return UserEvent{Operation: OperationCreate, Email: email, Username: username, Language: orDefault(language)}
}

func NewUpdated(email, username, language string) UserEvent {
	return UserEvent{Operation: OperationUpdate, Email: email, Username: username, Language: orDefault(language)}
}

func NewDeleted(email, username, language string) UserEvent {
	return UserEvent{Operation: OperationDelete, Email: email, Username: username, Language: orDefault(language)}
}

// Is compares the operation case-insensitively.
func (e UserEvent) Is(operation string) bool {
	return strings.EqualFold(e.Operation, operation)
}

func orDefault(language string) string {
	if strings.TrimSpace(language) == "" {
		return DefaultLanguage
	}
	return language
}
