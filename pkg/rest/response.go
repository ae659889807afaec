package rest

// Status classifies the outcome of a KEGG request after all tries.
type Status int

const (
	// StatusSuccess means the request returned 200 with a non-empty body.
	StatusSuccess Status = iota + 1

	// StatusFailed means the remote rejected the request (non-200).
	// Failures are not retried: KEGG fails a bad request every time.
	StatusFailed

	// StatusTimeout means every try timed out. Retrying later may help.
	StatusTimeout
)

// String implements fmt.Stringer. The values double as metric labels.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Response is the classified result of one KEGG request.
type Response struct {
	// Status is the final classification after the retry policy ran.
	Status Status

	// URL is the request URL the response originated from.
	URL string

	// Body is the raw response body. Nil unless Status is StatusSuccess.
	Body []byte

	// Text is the response body as text. Empty unless successful.
	Text string
}
