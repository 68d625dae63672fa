package dms

// Message is a message to store in a slot and display.
//
// Text is MULTI markup; it is sent verbatim and the sign validates it.
// An empty Owner or a zero Priority falls back to the controller defaults.
type Message struct {
	Slot     SlotID
	Text     string
	Owner    string
	Priority uint8
}
