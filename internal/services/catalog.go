package services

import (
	"fmt"
	"strings"

	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/models"
)

var agentNumbers = []models.AgentNumber{
	{Number: "01892251000", Services: "Bkash & Rocket"},
	{Number: "01881015000", Services: "All Agent"},
}

var serviceOffers = []models.ServiceOffer{
	{Title: "Mobile Recharge", Description: "সকল অপারেটরের ইনস্ট্যান্ট রিচার্জ।"},
	{Title: "Account Opening", Description: "বিকাশ, নগদ, রকেট এবং উপায় অ্যাকাউন্ট।"},
	{Title: "Account Recovery", Description: "পিন ভুলে যাওয়া বা অ্যাকাউন্ট ব্লক ঠিক করা।"},
	{Title: "SIM PUK Unlock", Description: "সিমের পিন বা পাক (PUK) কোড আনলক।"},
	{Title: "Digital Banking", Description: "ক্যাশ ইন ও ক্যাশ আউট সুবিধা।"},
}

var gadgets = []models.Gadget{
	{Name: "Fast Charging Power Bank", Price: 1250, Description: "20000mAh high capacity with dual USB ports and PD fast charging.", Image: "/static/gadgets/power-bank.jpg"},
	{Name: "Wireless Earbuds", Price: 1850, Description: "Crystal clear sound with long battery life and touch controls.", Image: "/static/gadgets/earbuds.jpg"},
	{Name: "Premium Data Cable", Price: 350, Description: "Durable braided cable supporting fast data transfer and charging.", Image: "/static/gadgets/data-cable.jpg"},
	{Name: "Fast Wall Charger", Price: 550, Description: "33W GAN charger for safe and rapid mobile charging.", Image: "/static/gadgets/wall-charger.jpg"},
}

// NewCatalog assembles the storefront for the configured shop.
func NewCatalog(shop config.ShopConfig) models.Catalog {
	return models.Catalog{
		ShopName:     shop.Name,
		Owner:        shop.Owner,
		Contact:      shop.Contact,
		Address:      shop.Address,
		WhatsApp:     WhatsAppURL(shop.Contact, ""),
		AgentNumbers: agentNumbers,
		Services:     serviceOffers,
		Gadgets:      gadgets,
	}
}

// SystemPrompt briefs the chatbot on the shop.
func SystemPrompt(c models.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s AI Assistant.\n", c.ShopName)
	fmt.Fprintf(&b, "Owner: %s.\n", c.Owner)
	fmt.Fprintf(&b, "Location: %s.\n", c.Address)
	fmt.Fprintf(&b, "Primary Contact: %s (WhatsApp).\n", c.Contact)

	agents := make([]string, len(c.AgentNumbers))
	for i, a := range c.AgentNumbers {
		agents[i] = fmt.Sprintf("%s (%s)", a.Number, a.Services)
	}
	fmt.Fprintf(&b, "Agent Numbers: %s.\n", strings.Join(agents, ", "))

	services := make([]string, len(c.Services))
	for i, s := range c.Services {
		services[i] = s.Title
	}
	fmt.Fprintf(&b, "Services: %s.\n", strings.Join(services, ", "))

	products := make([]string, len(c.Gadgets))
	for i, g := range c.Gadgets {
		products[i] = fmt.Sprintf("%s (৳%.0f)", g.Name, g.Price)
	}
	fmt.Fprintf(&b, "Products: %s.\n", strings.Join(products, ", "))
	b.WriteString("Tone: Helpful, local, and professional. Use Bengali if the user speaks Bengali.")
	return b.String()
}
