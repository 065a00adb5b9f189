package testutil

import "github.com/atomicstack/a2ui-term/internal/protocol"

func str(s string) *string { return &s }

func bound(path string) *protocol.DataBinding {
	return &protocol.DataBinding{Path: path}
}

func field(id, label, placeholder, path string) protocol.Component {
	return protocol.Component{ID: id, Variant: protocol.TextField{Label: str(label), Placeholder: str(placeholder), DataBinding: bound(path)}}
}

// BookingForm is a table booking surface with four bound fields and a submit
// button posting to /submit.
func BookingForm(date string) []protocol.Message {
	return []protocol.Message{
		{BeginRendering: &protocol.BeginRendering{SurfaceID: "booking-form", Root: "root"}},
		{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "booking-form", Components: []protocol.Component{
			{ID: "root", Variant: protocol.Column{Children: []string{"header", "form-card", "status"}}},
			{ID: "header", Variant: protocol.Text{Text: str("Restaurant Booking")}},
			{ID: "form-card", Variant: protocol.Card{Child: "form-content"}},
			{ID: "form-content", Variant: protocol.Column{Children: []string{"name-field", "date-field", "time-field", "party-field", "submit-btn"}}},
			field("name-field", "Name", "Your name", "/form/name"),
			field("date-field", "Date", "YYYY-MM-DD", "/form/date"),
			field("time-field", "Time", "HH:MM", "/form/time"),
			field("party-field", "Party Size", "Number of guests", "/form/party"),
			{ID: "submit-btn", Variant: protocol.Button{Text: "Book Table", Action: protocol.Action{
				Type: protocol.ActionSubmit,
				Data: map[string]any{"endpoint": "/submit"},
			}}},
			{ID: "status", Variant: protocol.Text{Text: str("")}},
		}}},
		{DataModelUpdate: &protocol.DataModelUpdate{SurfaceID: "booking-form", Contents: map[string]any{
			"/form/name":  "",
			"/form/date":  date,
			"/form/time":  "19:00",
			"/form/party": "2",
		}}},
	}
}

// Confirmation is the surface returned after a successful booking. Its back
// button navigates to /form.
func Confirmation(id, details string) []protocol.Message {
	return []protocol.Message{
		{BeginRendering: &protocol.BeginRendering{SurfaceID: "confirmation", Root: "root"}},
		{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "confirmation", Components: []protocol.Component{
			{ID: "root", Variant: protocol.Column{Children: []string{"success-card"}}},
			{ID: "success-card", Variant: protocol.Card{Child: "confirm-content"}},
			{ID: "confirm-content", Variant: protocol.Column{Children: []string{"title", "booking-id", "details", "back-btn"}}},
			{ID: "title", Variant: protocol.Text{Text: str("Booking Confirmed!")}},
			{ID: "booking-id", Variant: protocol.Text{DataBinding: bound("/booking/id")}},
			{ID: "details", Variant: protocol.Text{DataBinding: bound("/booking/details")}},
			{ID: "back-btn", Variant: protocol.Button{Text: "New Booking", Action: protocol.Action{
				Type: protocol.ActionNavigate,
				Data: map[string]any{"url": "/form"},
			}}},
		}}},
		{DataModelUpdate: &protocol.DataModelUpdate{SurfaceID: "confirmation", Contents: map[string]any{
			"/booking/id":      "Confirmation: " + id,
			"/booking/details": details,
		}}},
	}
}
