// Package messagingtest holds webhook bodies shared by tests.
package messagingtest

// Fixture is a named raw POST /webhook body.
type Fixture struct {
	Name string
	Body string
	// Observed is the number of messaging events a dispatcher reads from Body.
	Observed int
}

const (
	SingleEvent = `{"object":"page","entry":[{"messaging":[{"sender":{"id":"123"},"message":{"text":"hi"}}]}]}`

	NonPage = `{"object":"group","entry":[]}`

	EmptyPage = `{"object":"page","entry":[]}`

	// TwoEventsOneEntry carries two events in one entry; only the first is read.
	TwoEventsOneEntry = `{"object":"page","entry":[{"messaging":[
		{"sender":{"id":"first"},"message":{"text":"read me"}},
		{"sender":{"id":"second"},"message":{"text":"ignored"}}]}]}`

	MultiEntry = `{"object":"page","entry":[
		{"id":"p1","time":1458692752478,"messaging":[{"sender":{"id":"a"},"recipient":{"id":"p1"},"timestamp":1458692752478,"message":{"mid":"m-1","seq":1,"text":"one"}}]},
		{"id":"p1","time":1458692752479,"messaging":[]},
		{"id":"p2","time":1458692752480,"messaging":[{"sender":{"id":"b"},"message":"two"}]}]}`

	Unicode = `{"object":"page","entry":[{"messaging":[{"sender":{"id":"u"},"message":{"text":"héllo 👋 世界"}}]}]}`

	Malformed = `{"object":"page","entry":[{"messaging":[`

	MissingEntry = `{"object":"page"}`

	InvalidUTF8 = "{\"object\":\"page\",\"entry\":[{\"messaging\":[{\"sender\":{\"id\":\"1\"},\"message\":\"\xc3\x28\"}]}]}"
)

// Valid returns bodies that decode successfully.
func Valid() []Fixture {
	return []Fixture{
		{Name: "single event", Body: SingleEvent, Observed: 1},
		{Name: "non page object", Body: NonPage, Observed: 0},
		{Name: "empty page batch", Body: EmptyPage, Observed: 0},
		{Name: "two events in one entry", Body: TwoEventsOneEntry, Observed: 1},
		{Name: "multiple entries", Body: MultiEntry, Observed: 2},
		{Name: "unicode text", Body: Unicode, Observed: 1},
	}
}

// Invalid returns bodies that must be rejected as payload errors.
func Invalid() []Fixture {
	return []Fixture{
		{Name: "malformed json", Body: Malformed},
		{Name: "missing entry", Body: MissingEntry},
		{Name: "invalid utf8", Body: InvalidUTF8},
		{Name: "empty body", Body: ""},
	}
}
