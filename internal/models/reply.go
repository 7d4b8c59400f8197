package models

// Reply is the single result shape of the command handler. Every command,
// including malformed ones, resolves to a Reply.
type Reply struct {
	Content string
	IsHTML  bool
}

// ChartLinks holds the URLs of the rendered chart images for one message.
// A failed chart leaves its field empty; the message simply omits it.
type ChartLinks struct {
	Temperature string
	Rainfall    string
	Wind        string
}
