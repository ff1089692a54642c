package ahk

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Menu is a handle to one host menu, identified by its lowercased name.
// Every mutating method is a stateless translation into one or more Menu
// directives; nothing about the menu is cached here. A multi-step method
// that fails midway leaves the host menu in whatever partially-applied
// state the host itself leaves it.
type Menu struct {
	session *Session
	name    string
}

// Menu returns a handle to the named menu, creating nothing in the host
// until the first item is added. An empty name gets a random identity.
func (s *Session) Menu(name string) *Menu {
	if name == "" {
		name = uuid.NewString()
	}
	return &Menu{session: s, name: strings.ToLower(name)}
}

// TrayMenu is the host's tray menu: a Menu with the fixed name "tray"
// plus the tray-only operations.
type TrayMenu struct {
	Menu
}

// TrayMenu returns the handle to the process-wide tray menu.
func (s *Session) TrayMenu() *TrayMenu {
	return &TrayMenu{Menu{session: s, name: "tray"}}
}

// ByPosition addresses a menu item by its 1-based position instead of its
// name.
func ByPosition(pos int) string {
	return strconv.Itoa(pos) + "&"
}

// Name returns the menu's host identity.
func (m *Menu) Name() string { return m.name }

// Handle returns the host's native handle for the menu.
func (m *Menu) Handle() (string, error) {
	return m.session.call("MenuGetHandle", m.name)
}

func (m *Menu) call(args ...any) error {
	callArgs := append([]any{m.name}, args...)
	_, err := m.session.call("Menu", callArgs...)
	return err
}

// MenuItemOptions configures a new menu item. The zero value is an
// enabled, unchecked, plain item with priority 0.
type MenuItemOptions struct {
	Priority int
	// Default renders the item bold and makes it the double-click action
	// on the tray menu.
	Default  bool
	Disabled bool
	Checked  bool
	// Radio uses a radio dot instead of a checkmark.
	Radio bool
	// Right right-aligns the item within its column.
	Right bool
	// NewColumn starts a new column at this item; BarColumn additionally
	// draws a dividing bar.
	NewColumn bool
	BarColumn bool

	Icon       string
	IconNumber int
	IconWidth  OptionalInt
}

// Add appends an item that runs onClick when selected.
func (m *Menu) Add(itemName string, onClick func(), opts MenuItemOptions) error {
	return m.insertItem(nil, itemName, onClick, nil, opts, true)
}

// AddSeparator appends a separator line.
func (m *Menu) AddSeparator() error {
	return m.call("Insert", nil, nil, nil, "")
}

// AddSubmenu appends an item that opens another menu.
func (m *Menu) AddSubmenu(itemName string, submenu *Menu, opts MenuItemOptions) error {
	return m.insertItem(nil, itemName, nil, submenu, opts, false)
}

// Insert adds an item before an existing one (by name, or ByPosition).
func (m *Menu) Insert(insertBefore, itemName string, onClick func(), opts MenuItemOptions) error {
	if insertBefore == "" {
		return errors.New("insertBefore must not be empty")
	}
	return m.insertItem(insertBefore, itemName, onClick, nil, opts, true)
}

// InsertSeparator adds a separator before an existing item.
func (m *Menu) InsertSeparator(insertBefore string) error {
	if insertBefore == "" {
		return errors.New("insertBefore must not be empty")
	}
	return m.call("Insert", insertBefore, nil, nil, "")
}

// InsertSubmenu adds a submenu item before an existing one.
func (m *Menu) InsertSubmenu(insertBefore, itemName string, submenu *Menu, opts MenuItemOptions) error {
	if insertBefore == "" {
		return errors.New("insertBefore must not be empty")
	}
	return m.insertItem(insertBefore, itemName, nil, submenu, opts, false)
}

// insertItem issues the Insert directive plus the follow-up state calls.
// Plain items carry a priority token; submenu items do not.
func (m *Menu) insertItem(insertBefore any, itemName string, onClick func(), submenu *Menu, opts MenuItemOptions, withPriority bool) error {
	var thing any
	switch {
	case submenu != nil:
		thing = ":" + submenu.name
	case onClick != nil:
		fn := onClick
		thing = m.session.caller.RegisterCallback(func([]string) string {
			fn()
			return ""
		})
	}

	priority := OptionalInt{}
	if withPriority {
		priority = Int(opts.Priority)
	}
	boolState := func(v bool) Tristate {
		if v {
			return On
		}
		return Off
	}
	optionStr := menuItemOptionString(priority,
		boolState(opts.Radio), boolState(opts.Right),
		boolState(opts.NewColumn), boolState(opts.BarColumn))

	if err := m.call("Insert", insertBefore, itemName, thing, optionStr); err != nil {
		return err
	}
	if opts.Default {
		if err := m.SetDefault(itemName); err != nil {
			return err
		}
	}
	if opts.Disabled {
		if err := m.Disable(itemName); err != nil {
			return err
		}
	}
	if opts.Checked {
		if err := m.Check(itemName); err != nil {
			return err
		}
	}
	if opts.Icon != "" {
		if err := m.SetIcon(itemName, opts.Icon, opts.IconNumber, opts.IconWidth); err != nil {
			return err
		}
	}
	return nil
}

// MenuItemUpdate adjusts an existing item. Unset fields leave the host
// state alone.
type MenuItemUpdate struct {
	// NewName renames the item when set. Renaming to "" turns the item
	// into a separator.
	NewName    string
	NewNameSet bool

	OnClick func()
	Submenu *Menu

	Priority OptionalInt
	Enabled  Tristate
	Checked  Tristate
	Radio    Tristate
	Right    Tristate
	// NewColumn starts a new column at this item; BarColumn additionally
	// draws a dividing bar.
	NewColumn Tristate
	BarColumn Tristate

	Icon       string
	IconNumber int
	IconWidth  OptionalInt
}

// Update applies an update step by step: rename, option string, action or
// submenu, enabled state, checked state, icon. Each step is a separate
// host call and each can fail independently; Update stops at the first
// failure. Steps after a rename address the item by its new name.
func (m *Menu) Update(itemName string, u MenuItemUpdate) error {
	if u.NewNameSet {
		if err := m.Rename(itemName, u.NewName); err != nil {
			return err
		}
		itemName = u.NewName
	}

	optionStr := menuItemOptionString(u.Priority, u.Radio, u.Right, u.NewColumn, u.BarColumn)
	if optionStr != "" {
		if err := m.call("Add", itemName, "", optionStr); err != nil {
			return err
		}
	}

	var thing any
	switch {
	case u.Submenu != nil:
		thing = ":" + u.Submenu.name
	case u.OnClick != nil:
		fn := u.OnClick
		thing = m.session.caller.RegisterCallback(func([]string) string {
			fn()
			return ""
		})
	}
	if thing != nil {
		if err := m.call("Add", itemName, thing); err != nil {
			return err
		}
	}

	switch u.Enabled {
	case On:
		if err := m.Enable(itemName); err != nil {
			return err
		}
	case Off:
		if err := m.Disable(itemName); err != nil {
			return err
		}
	}

	switch u.Checked {
	case On:
		if err := m.Check(itemName); err != nil {
			return err
		}
	case Off:
		if err := m.Uncheck(itemName); err != nil {
			return err
		}
	}

	if u.Icon != "" {
		return m.SetIcon(itemName, u.Icon, u.IconNumber, u.IconWidth)
	}
	return nil
}

// menuItemOptionString builds the space-joined option string shared by
// insert and update: P<prio> ±Radio ±Right ±Break ±BarBreak, emitting only
// set options.
func menuItemOptionString(priority OptionalInt, radio, right, newColumn, barColumn Tristate) string {
	var parts []string
	if priority.Set {
		parts = append(parts, "P"+strconv.Itoa(priority.Value))
	}
	signed := func(state Tristate, name string) {
		switch state {
		case On:
			parts = append(parts, "+"+name)
		case Off:
			parts = append(parts, "-"+name)
		}
	}
	signed(radio, "Radio")
	signed(right, "Right")
	signed(newColumn, "Break")
	signed(barColumn, "BarBreak")
	return strings.Join(parts, " ")
}

// DeleteItem removes one item.
func (m *Menu) DeleteItem(itemName string) error {
	return m.call("Delete", itemName)
}

// DeleteAllItems empties the menu but keeps it registered.
func (m *Menu) DeleteAllItems() error {
	return m.call("DeleteAll")
}

// DeleteMenu deletes the menu itself.
func (m *Menu) DeleteMenu() error {
	return m.call("Delete")
}

// Rename changes an item's name; an empty new name turns it into a
// separator.
func (m *Menu) Rename(itemName, newName string) error {
	return m.call("Rename", itemName, newName)
}

// Check puts a checkmark next to the item.
func (m *Menu) Check(itemName string) error { return m.call("Check", itemName) }

// Uncheck removes the item's checkmark.
func (m *Menu) Uncheck(itemName string) error { return m.call("Uncheck", itemName) }

// ToggleCheck flips the item's checkmark.
func (m *Menu) ToggleCheck(itemName string) error { return m.call("ToggleCheck", itemName) }

// Enable makes the item selectable.
func (m *Menu) Enable(itemName string) error { return m.call("Enable", itemName) }

// Disable grays the item out.
func (m *Menu) Disable(itemName string) error { return m.call("Disable", itemName) }

// ToggleEnable flips the item between enabled and disabled.
func (m *Menu) ToggleEnable(itemName string) error { return m.call("ToggleEnable", itemName) }

// SetDefault makes the item the menu's default action.
func (m *Menu) SetDefault(itemName string) error { return m.call("Default", itemName) }

// RemoveDefault clears the menu's default action.
func (m *Menu) RemoveDefault() error { return m.call("NoDefault") }

// SetIcon puts an icon next to the item. number selects an icon within a
// multi-icon file, counted from 0; width scales the icon when set.
func (m *Menu) SetIcon(itemName, filename string, number int, width OptionalInt) error {
	var widthArg any
	if width.Set {
		widthArg = width.Value
	}
	return m.call("Icon", itemName, filename, number+1, widthArg)
}

// RemoveIcon removes the item's icon.
func (m *Menu) RemoveIcon(itemName string) error {
	return m.call("NoIcon", itemName)
}

// Show pops the menu up at the mouse position.
func (m *Menu) Show() error { return m.call("Show") }

// SetColor sets the menu's background color.
func (m *Menu) SetColor(color string) error { return m.call("Color", color) }

// SetTrayIcon changes the tray icon.
func (m *TrayMenu) SetTrayIcon(filename string) error {
	return m.call("Icon", filename)
}

// RemoveTrayIcon restores the host's default tray icon.
func (m *TrayMenu) RemoveTrayIcon() error {
	return m.call("NoIcon")
}

// SetTip sets the tray icon's hover tooltip.
func (m *TrayMenu) SetTip(text string) error {
	return m.call("Tip", text)
}

// SetClick sets how many clicks activate the tray menu's default item.
func (m *TrayMenu) SetClick(clicks int) error {
	return m.call("Click", clicks)
}
