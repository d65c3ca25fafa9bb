package domain

// Board is the rendered view: every task in order plus the node serving the request.
type Board struct {
	Tasks    []string
	Hostname Hostname
}
