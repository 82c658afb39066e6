package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/redditclone/internal/server/models"
)

const activationSubject = "Please Activate your Account"

// ActivationNotification composes the activation mail for recipient. The
// link is baseURL followed by the token as the last path segment.
func ActivationNotification(baseURL, recipient, token string) models.Notification {
	link := strings.TrimRight(baseURL, "/") + "/" + token
	return models.Notification{
		Subject:   activationSubject,
		Recipient: recipient,
		Body: fmt.Sprintf("Thank you for signing up to Spring Reddit, "+
			"please click on the below url to activate your account : %s", link),
	}
}
