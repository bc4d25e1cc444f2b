package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"todo/internal/config"
)

type keyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Focus      key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	AddList    key.Binding
	DeleteList key.Binding
	Add        key.Binding
	Toggle     key.Binding
	Trash      key.Binding
	Edit       key.Binding
	Restore    key.Binding
	Clear      key.Binding
	Refresh    key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Up:         key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up, "up")),
		Down:       key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down, "down")),
		Focus:      key.NewBinding(key.WithKeys(k.Focus), key.WithHelp(k.Focus, "switch pane")),
		Confirm:    key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "confirm")),
		Cancel:     key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "cancel")),
		AddList:    key.NewBinding(key.WithKeys(k.AddList), key.WithHelp(k.AddList, "add list")),
		DeleteList: key.NewBinding(key.WithKeys(k.DeleteList), key.WithHelp(k.DeleteList, "delete list")),
		Add:        key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add task")),
		Toggle:     key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(keyLabel(k.Toggle), "toggle")),
		Trash:      key.NewBinding(key.WithKeys(k.Trash), key.WithHelp(k.Trash, "trash task")),
		Edit:       key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Restore:    key.NewBinding(key.WithKeys(k.Restore), key.WithHelp(k.Restore, "restore all")),
		Clear:      key.NewBinding(key.WithKeys(k.Clear), key.WithHelp(k.Clear, "clear trash")),
		Refresh:    key.NewBinding(key.WithKeys(k.Refresh), key.WithHelp(k.Refresh, "refresh")),
	}
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += fmt.Sprintf("%s %s", h.Key, h.Desc)
	}
	return out
}
