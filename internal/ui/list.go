package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotsync/internal/models"
)

var _ list.Item = rowItem{}

// rowItem wraps [models.TableRow] to implement [list.Item].
type rowItem struct {
	row models.TableRow
}

func (i rowItem) FilterValue() string { return i.row.Name }

func (i rowItem) Title() string {
	title := i.row.Name
	if i.row.IsActive {
		title = fmt.Sprintf("▶ %s", title)
	}
	if i.row.Liked {
		title = fmt.Sprintf("%s %s", title, styles.liked.Render("♥"))
	}
	return title
}

func (i rowItem) Description() string {
	if i.row.Description != "" {
		return i.row.Description
	}
	return i.row.URI
}

func rowItems(rows []models.TableRow) []list.Item {
	items := make([]list.Item, len(rows))
	for n, row := range rows {
		items[n] = rowItem{row: row}
	}
	return items
}
