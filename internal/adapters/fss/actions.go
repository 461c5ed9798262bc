package fss

// Action is a logical FSS operation
type Action int

const (
	ActionPurchase Action = iota + 1
	ActionAuthorize
	ActionCapture
	ActionRefund
	ActionStartPreauth
	ActionUsePreauth
)

// Servlet paths under the test or live base URL
const (
	EndpointTransaction    = "TranPortalXMLServlet"
	EndpointEnrollment     = "MPIVerifyEnrollmentXMLServlet"
	EndpointAuthentication = "MPIPayerAuthenticationXMLServlet"
)

// payloadKind is the source of the non-invoice fields an action requires
type payloadKind int

const (
	payloadCard payloadKind = iota + 1
	payloadReference
	payloadToken
)

type route struct {
	name     string
	code     string // empty when the action sends no action field
	endpoint string
	payload  payloadKind
}

var routes = map[Action]route{
	ActionPurchase:     {name: "purchase", code: "1", endpoint: EndpointTransaction, payload: payloadCard},
	ActionStartPreauth: {name: "start_preauth", code: "1", endpoint: EndpointEnrollment, payload: payloadCard},
	ActionRefund:       {name: "refund", code: "2", endpoint: EndpointTransaction, payload: payloadReference},
	ActionAuthorize:    {name: "authorize", code: "4", endpoint: EndpointTransaction, payload: payloadCard},
	ActionCapture:      {name: "capture", code: "5", endpoint: EndpointTransaction, payload: payloadReference},
	ActionUsePreauth:   {name: "use_preauth", endpoint: EndpointAuthentication, payload: payloadToken},
}

// Valid reports whether a is one of the declared actions
func (a Action) Valid() bool {
	_, ok := routes[a]
	return ok
}

func (a Action) String() string {
	if r, ok := routes[a]; ok {
		return r.name
	}
	return "unknown"
}

// Code returns the numeric action code sent in the action field.
// ok is false for actions that must omit the field.
func (a Action) Code() (code string, ok bool) {
	r := routes[a]
	return r.code, r.code != ""
}

// Endpoint returns the servlet path the action is posted to
func (a Action) Endpoint() string {
	return routes[a].endpoint
}

func (a Action) payload() payloadKind {
	return routes[a].payload
}
