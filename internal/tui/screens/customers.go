package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhlin/deskctl/internal/models"
	"github.com/jhlin/deskctl/internal/service"
	"github.com/jhlin/deskctl/internal/warranty"
)

type Customers struct {
	client *service.Client
	width  int
	height int

	customers   []models.Customer
	showExpired bool
	cursor      int
	loading     bool
	err         error
}

func NewCustomers(client *service.Client) *Customers {
	return &Customers{client: client}
}

func (c *Customers) SetSize(width, height int) {
	c.width = width
	c.height = height
}

type customersDataMsg struct {
	customers []models.Customer
	err       error
}

func (c *Customers) Init() tea.Cmd {
	c.loading = true
	return c.loadData
}

func (c *Customers) loadData() tea.Msg {
	customers, err := c.client.ListCustomers(context.Background())
	return customersDataMsg{customers: customers, err: err}
}

func (c *Customers) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case customersDataMsg:
		c.loading = false
		c.err = msg.err
		c.customers = msg.customers
		c.cursor = 0
		return nil

	case RefreshMsg:
		return c.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if c.cursor > 0 {
				c.cursor--
			}
		case "down", "j":
			if c.cursor < len(c.visible())-1 {
				c.cursor++
			}
		case "e":
			c.showExpired = !c.showExpired
			c.cursor = 0
		case "q", "esc":
			return Navigate("dashboard")
		}
	}

	return nil
}

// visible splits the customer list by live warranty classification,
// the way the web console's active/expired tabs did.
func (c *Customers) visible() []models.Customer {
	now := time.Now()
	var out []models.Customer
	for _, cust := range c.customers {
		expired := warranty.ClassifyPtr(cust.WarrantyDue, now).State == warranty.StateExpired
		if expired == c.showExpired {
			out = append(out, cust)
		}
	}
	return out
}

func (c *Customers) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("CUSTOMERS"))
	b.WriteString("\n\n")

	if c.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if c.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", c.err)))
		b.WriteString("\n\n")
	}

	now := time.Now()
	visible := c.visible()
	tab := fmt.Sprintf("Showing: active (%d)", len(visible))
	if c.showExpired {
		tab = fmt.Sprintf("Showing: expired (%d)", len(visible))
	}
	b.WriteString(SubtitleStyle.Render(tab))
	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(DimStyle.Render("No customers in this group."))
		b.WriteString("\n\n")
	} else {
		for i, cust := range visible {
			cursor := "  "
			style := NormalStyle
			if i == c.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			status := warranty.ClassifyPtr(cust.WarrantyDue, now)
			badge := WarrantyStyle(status.Color).Render(status.Label)

			owner := ""
			if cust.BusinessOwner != "" {
				owner = DimStyle.Render(" (" + cust.BusinessOwner + ")")
			}

			b.WriteString(style.Render(fmt.Sprintf("%s%s%s - ", cursor, cust.Name, owner)))
			b.WriteString(badge)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[e] Toggle active/expired  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
