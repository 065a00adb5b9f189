// Package ui contains the Bubble Tea program that renders an A2UI surface in
// the terminal.
//
// Message flow:
//   - Bubble Tea invokes Model.Update, which routes each tea.Msg through a
//     typed handler registry so key presses, resizes, spinner ticks and
//     backend results are each handled by a focused function.
//   - Key handling (navigation.go) moves focus around the ring of text fields
//     and buttons. Keys that are not bindings go to the focused text field
//     (input.go), which writes the edited value to the store's form overlay.
//   - Enter on a button plans its action with the dispatcher and hands the
//     request to the command bus, which queues it on the backend worker.
//
// State ownership:
//   - The component registry, data model and overlay belong to the surface
//     store. The model never mutates them except through SetOverlay and the
//     dispatcher.
//   - The rendered tree is re-resolved after every change; focus and text
//     input widgets are reconciled against it by component id.
//
// Backend interactions:
//   - A backend.Worker runs HTTP round trips off the UI goroutine. Update
//     waits for its events and passes them to the dispatcher, which discards
//     responses superseded by a newer request before applying the rest.
package ui
