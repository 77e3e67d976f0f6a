package ui

import (
	"fmt"

	"github.com/m3rciful/artliftbot/core/telegram/keyboard"
)

// PageNav builds a prev/next navigation row for a paginated list. The
// callback unique receives the target page number as payload. Either side is
// omitted at the list edges, and an empty slice is returned when there is
// nowhere to go.
func PageNav(unique string, page int, hasPrev, hasNext bool) []keyboard.InlineBtn {
	var row []keyboard.InlineBtn
	if hasPrev {
		row = append(row, keyboard.InlineBtn{
			Text:   "⬅️ Назад",
			Unique: unique,
			Data:   fmt.Sprintf("%d", page-1),
		})
	}
	if hasNext {
		row = append(row, keyboard.InlineBtn{
			Text:   "Вперёд ➡️",
			Unique: unique,
			Data:   fmt.Sprintf("%d", page+1),
		})
	}
	return row
}
