// Package notify subscribes to domain events: it invalidates cached read
// models, writes the borrower's notification inbox and sends e-mail.
package notify

import (
	"fmt"

	"loan-origination/internal/events"
)

type message struct {
	Title string
	Body  string
}

// borrowerMessage returns what the borrower is told about e. ok is false
// for events the borrower caused or that carry nothing worth telling.
func borrowerMessage(e events.Event) (message, bool) {
	if e.UserID == "" || e.ActorID == e.UserID {
		return message{}, false
	}
	ref := e.ApplicationID
	switch e.Kind {
	case events.ApplicationApproved:
		return message{
			Title: "Demande de prêt approuvée",
			Body:  withNote(fmt.Sprintf("Votre demande %s a été approuvée. Votre contrat est en préparation.", ref), e.Message),
		}, true
	case events.ApplicationRejected:
		return message{
			Title: "Demande de prêt refusée",
			Body:  withNote(fmt.Sprintf("Votre demande %s n'a pas été retenue.", ref), e.Message),
		}, true
	case events.InfoRequested:
		return message{
			Title: "Informations complémentaires requises",
			Body:  withNote(fmt.Sprintf("Nous avons besoin de précisions sur votre demande %s.", ref), e.Message),
		}, true
	case events.DocumentReviewed:
		return message{
			Title: "Document vérifié",
			Body:  withNote(fmt.Sprintf("Un de vos justificatifs (%s) a été examiné.", e.DocumentID), e.Message),
		}, true
	case events.ContractGenerated, events.ContractSent:
		return message{
			Title: "Contrat disponible",
			Body:  fmt.Sprintf("Le contrat de votre demande %s est prêt à être signé.", ref),
		}, true
	case events.ContractVerified:
		return message{
			Title: "Contrat validé",
			Body:  fmt.Sprintf("Votre contrat signé pour la demande %s a été validé.", ref),
		}, true
	case events.ContractRejected:
		return message{
			Title: "Contrat à signer de nouveau",
			Body:  withNote(fmt.Sprintf("La signature du contrat de votre demande %s n'a pas été acceptée.", ref), e.Message),
		}, true
	default:
		return message{}, false
	}
}

func withNote(body, note string) string {
	if note == "" {
		return body
	}
	return body + "\n\n" + note
}
