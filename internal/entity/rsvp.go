package entity

type RSVPState string

const (
	RSVPStateNotJoined RSVPState = "NOT_JOINED"
	RSVPStateJoined    RSVPState = "JOINED"
)

type ButtonClass string

const (
	ButtonAvailable ButtonClass = "available"
	ButtonCancel    ButtonClass = "cancel"
	ButtonFull      ButtonClass = "full"
)

// RSVPButton is the action offered for an event card.
type RSVPButton struct {
	Label    string      `json:"label"`
	Class    ButtonClass `json:"class"`
	Disabled bool        `json:"disabled"`
}

func ButtonFor(state RSVPState, full bool) RSVPButton {
	switch {
	case state == RSVPStateJoined:
		return RSVPButton{Label: "Cancel RSVP", Class: ButtonCancel}
	case full:
		return RSVPButton{Label: "Event Full", Class: ButtonFull, Disabled: true}
	default:
		return RSVPButton{Label: "RSVP Now", Class: ButtonAvailable}
	}
}
