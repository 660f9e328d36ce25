package provider

// OutboundMessage is a message handed to a messaging gateway. From and To
// are already in gateway address form (for example "whatsapp:+1555...").
type OutboundMessage struct {
	From string
	To   string
	Body string
}

// MessageReceipt is the gateway acknowledgement of an accepted message.
type MessageReceipt struct {
	SID    string
	Status string
	To     string
}
