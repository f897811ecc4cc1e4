package deck

import (
	"fmt"

	"github.com/abhisek/studydeck/internal/api"
)

const (
	LabelMarkAsked  = "Mark as asked"
	LabelShowAnswer = "Show answer"
	LabelHideAnswer = "Hide answer"
)

// PanelView is a renderer-independent description of a panel.
type PanelView struct {
	// Text replaces the item list while generating or after a failure.
	Text  string
	Items []ItemView
}

// ItemView describes one rendered question.
type ItemView struct {
	Header        string
	Options       []string
	AskLabel      string
	AskDisabled   bool
	AnswerLabel   string
	Answer        string
	AnswerVisible bool
}

// Describe turns a panel into its view description. A nil panel has
// nothing to show.
func Describe(p *Panel) PanelView {
	if p == nil {
		return PanelView{}
	}
	switch p.Status {
	case StatusGenerating:
		return PanelView{Text: GeneratingText}
	case StatusFailed:
		return PanelView{Text: FailedText}
	}

	v := PanelView{Items: make([]ItemView, 0, len(p.Items))}
	for i, it := range p.Items {
		iv := ItemView{
			Header:        fmt.Sprintf("Q%d. %s", i+1, it.Question),
			Options:       make([]string, len(it.Options)),
			AskLabel:      LabelMarkAsked,
			AskDisabled:   it.Asked,
			AnswerLabel:   LabelShowAnswer,
			Answer:        "Answer: " + it.Answer,
			AnswerVisible: it.Revealed,
		}
		for j, opt := range it.Options {
			iv.Options[j] = fmt.Sprintf("%s. %s", api.OptionLetter(j), opt)
		}
		if it.Revealed {
			iv.AnswerLabel = LabelHideAnswer
		}
		v.Items = append(v.Items, iv)
	}
	return v
}
