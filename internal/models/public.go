package models

// ServiceOffer is a counter service listed on the storefront.
type ServiceOffer struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Gadget is an accessory sold over the counter.
type Gadget struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type AgentNumber struct {
	Number   string `json:"number"`
	Services string `json:"services"`
}

// Catalog is the public storefront content.
type Catalog struct {
	ShopName     string         `json:"shopName"`
	Owner        string         `json:"owner"`
	Contact      string         `json:"contact"`
	Address      string         `json:"address"`
	WhatsApp     string         `json:"whatsapp"`
	AgentNumbers []AgentNumber  `json:"agentNumbers"`
	Services     []ServiceOffer `json:"services"`
	Gadgets      []Gadget       `json:"gadgets"`
}

// ChatTurn is one earlier message of a chatbot conversation.
type ChatTurn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required,max=2000"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"required,max=2000" example:"Bkash account kholte ki lagbe?"`
	History []ChatTurn `json:"history" validate:"max=20,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
