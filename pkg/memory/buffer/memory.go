package buffer

// Log records the question/answer exchanges a session has had with each
// agent, newest last.

type Log struct {
	Items []Exchange `json:"exchanges"`
}

type Exchange struct {
	Agent    string `json:"agent"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (l *Log) Add(e Exchange) {
	l.Items = append(l.Items, e)
}

// LastFor returns the most recent exchange with the named agent.
func (l *Log) LastFor(agent string) (Exchange, bool) {
	for i := len(l.Items) - 1; i >= 0; i-- {
		if l.Items[i].Agent == agent {
			return l.Items[i], true
		}
	}
	return Exchange{}, false
}
