package moria

// Upstream responses are wrapped in an envelope: {"result": {"array": [...]}}.
type envelope[T any] struct {
	Result struct {
		Array []T `json:"array"`
	} `json:"result"`
}

// listEntry is one row of the list-of-ids endpoint.
type listEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// activityRecord is one row of the activities-for-id endpoint. Event and
// teacher are arrays of which only the first element is used.
type activityRecord struct {
	ID       string          `json:"id"`
	Event    []eventRecord   `json:"event"`
	Teacher  []teacherRecord `json:"teacher"`
	Type     typeRecord      `json:"type"`
	Students []studentRecord `json:"students_array"`
}

type eventRecord struct {
	Name      string `json:"name"`
	Day       string `json:"day"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  string `json:"duration"`
	Room      string `json:"room"`
}

type teacherRecord struct {
	Name string `json:"name"`
}

type typeRecord struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Shortcut string `json:"shortcut"`
}

type studentRecord struct {
	ID     string `json:"id"`
	Group  string `json:"group"`
	Groups string `json:"groups"`
}
