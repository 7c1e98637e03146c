package models

import (
	"net/mail"
	"slices"
	"strings"
)

// BriefVersion is stamped on every new submission.
const BriefVersion = 2

// Brief is a stored project brief submission.
type Brief struct {
	ID string

	// UserID, UserName and UserEmail identify the submitter when signed in.
	// All three are empty for anonymous submissions.
	UserID    string
	UserName  string
	UserEmail string

	Data BriefData

	Version int

	// CreatedAt and CompletedAt are Unix timestamps (seconds).
	CreatedAt   int64
	CompletedAt int64
}

// BriefData is the questionnaire content. Enumerated fields use the empty
// string for "not answered"; tri-state booleans use nil.
type BriefData struct {
	ProjectOverview ProjectOverview `json:"projectOverview"`
	PaymentMethods  PaymentMethods  `json:"paymentMethods"`
	AIFeatures      AIFeatures      `json:"aiFeatures"`
	Features        Features        `json:"features"`
	Design          Design          `json:"design"`
	Communication   Communication   `json:"communication"`
	Admin           AdminFeatures   `json:"admin"`
	Logistics       Logistics       `json:"logistics"`
	Content         Content         `json:"content"`
	AdditionalInfo  string          `json:"additionalInfo"`
	Summary         BriefSummary    `json:"summary"`
}

type ProjectOverview struct {
	ProjectType    string `json:"projectType"`
	PrimaryGoal    string `json:"primaryGoal"`
	TargetAudience string `json:"targetAudience"`
	Deadline       string `json:"deadline"`
	BudgetRange    string `json:"budgetRange"`
}

type PaymentMethods struct {
	DigitalWallet1 bool   `json:"digitalWallet1"`
	DigitalWallet2 bool   `json:"digitalWallet2"`
	BankTransfer   bool   `json:"bankTransfer"`
	CreditCard     bool   `json:"creditCard"`
	AccountDetails string `json:"accountDetails"`
	Currency       string `json:"currency"`
}

type AIFeatures struct {
	Assistant       string `json:"assistant"`
	ImageGeneration bool   `json:"imageGeneration"`
	ContentCreation bool   `json:"contentCreation"`
	OtherAI         string `json:"otherAI"`
}

type Features struct {
	UserAccounts     bool `json:"userAccounts"`
	BookingSystem    bool `json:"bookingSystem"`
	Reviews          bool `json:"reviews"`
	Blog             bool `json:"blog"`
	Multilingual     bool `json:"multilingual"`
	DedicatedSupport bool `json:"dedicatedSupport"`
	ResponsiveDesign bool `json:"responsiveDesign"`
	SEOOptimization  bool `json:"seoOptimization"`
}

type Design struct {
	Style             string `json:"style"`
	HasLogo           *bool  `json:"hasLogo"`
	BrandColors       string `json:"brandColors"`
	ReferenceWebsites string `json:"referenceWebsites"`
}

type Communication struct {
	WhatsappIntegration bool `json:"whatsappIntegration"`
	EmailMarketing      bool `json:"emailMarketing"`
	LiveChat            bool `json:"liveChat"`
	ContactForm         bool `json:"contactForm"`
}

type AdminFeatures struct {
	SalesDashboard      bool `json:"salesDashboard"`
	ContentManagement   bool `json:"contentManagement"`
	InventoryManagement bool `json:"inventoryManagement"`
	Analytics           bool `json:"analytics"`
}

type Logistics struct {
	ShippingIntegration bool   `json:"shippingIntegration"`
	StorePickup         bool   `json:"storePickup"`
	LocalDelivery       bool   `json:"localDelivery"`
	Zones               string `json:"zones"`
}

type Content struct {
	HasPhotos       string `json:"hasPhotos"`
	HasTextContent  *bool  `json:"hasTextContent"`
	HostingProvider string `json:"hostingProvider"`
	DomainName      string `json:"domainName"`
}

type BriefSummary struct {
	BusinessName string `json:"businessName"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
}

var (
	projectTypes  = []string{"ecommerce", "landing", "portfolio", "corporate", "custom"}
	payCurrencies = []string{"PEN", "USD", "EUR", "OTHER"}
	assistants    = []string{"complete", "simple", "none"}
	designStyles  = []string{"minimalist", "vibrant", "professional", "luxury", "custom"}
	photoOptions  = []string{"yes", "no", "some"}
)

func checkEnum(field, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return validationError("%s: unexpected value %q (allowed: %s)", field, value, strings.Join(allowed, ", "))
}

// Validate checks a submission before it is stored.
func (d *BriefData) Validate() error {
	d.Summary.BusinessName = strings.TrimSpace(d.Summary.BusinessName)
	d.Summary.ContactName = strings.TrimSpace(d.Summary.ContactName)
	d.Summary.ContactEmail = strings.TrimSpace(d.Summary.ContactEmail)

	if d.Summary.BusinessName == "" && d.Summary.ContactName == "" {
		return validationError("a business name or contact name is required")
	}
	if d.Summary.ContactEmail != "" {
		if _, err := mail.ParseAddress(d.Summary.ContactEmail); err != nil {
			return validationError("contact email %q is not a valid address", d.Summary.ContactEmail)
		}
	}
	checks := []error{
		checkEnum("projectType", d.ProjectOverview.ProjectType, projectTypes),
		checkEnum("currency", d.PaymentMethods.Currency, payCurrencies),
		checkEnum("assistant", d.AIFeatures.Assistant, assistants),
		checkEnum("style", d.Design.Style, designStyles),
		checkEnum("hasPhotos", d.Content.HasPhotos, photoOptions),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// BriefField is one labelled answer, formatted for display.
type BriefField struct {
	Label string
	Value string
}

// BriefSection groups the answers of one questionnaire section.
type BriefSection struct {
	Title  string
	Fields []BriefField
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func triState(b *bool) string {
	if b == nil {
		return "-"
	}
	return yesNo(*b)
}

func text(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Sections lists the answers in questionnaire order, formatted the way the
// admin exports show them.
func (d *BriefData) Sections() []BriefSection {
	return []BriefSection{
		{"Project Overview", []BriefField{
			{"Project Type", text(d.ProjectOverview.ProjectType)},
			{"Primary Goal", text(d.ProjectOverview.PrimaryGoal)},
			{"Target Audience", text(d.ProjectOverview.TargetAudience)},
			{"Deadline", text(d.ProjectOverview.Deadline)},
			{"Budget Range", text(d.ProjectOverview.BudgetRange)},
		}},
		{"Payment Methods", []BriefField{
			{"Digital Wallet 1", yesNo(d.PaymentMethods.DigitalWallet1)},
			{"Digital Wallet 2", yesNo(d.PaymentMethods.DigitalWallet2)},
			{"Bank Transfer", yesNo(d.PaymentMethods.BankTransfer)},
			{"Credit Card", yesNo(d.PaymentMethods.CreditCard)},
			{"Account Details", text(d.PaymentMethods.AccountDetails)},
			{"Currency", text(d.PaymentMethods.Currency)},
		}},
		{"AI Features", []BriefField{
			{"Assistant", text(d.AIFeatures.Assistant)},
			{"Image Generation", yesNo(d.AIFeatures.ImageGeneration)},
			{"Content Creation", yesNo(d.AIFeatures.ContentCreation)},
			{"Other AI", text(d.AIFeatures.OtherAI)},
		}},
		{"Features", []BriefField{
			{"User Accounts", yesNo(d.Features.UserAccounts)},
			{"Booking System", yesNo(d.Features.BookingSystem)},
			{"Reviews", yesNo(d.Features.Reviews)},
			{"Blog", yesNo(d.Features.Blog)},
			{"Multilingual", yesNo(d.Features.Multilingual)},
			{"Dedicated Support", yesNo(d.Features.DedicatedSupport)},
			{"Responsive Design", yesNo(d.Features.ResponsiveDesign)},
			{"SEO Optimization", yesNo(d.Features.SEOOptimization)},
		}},
		{"Design", []BriefField{
			{"Style", text(d.Design.Style)},
			{"Has Logo", triState(d.Design.HasLogo)},
			{"Brand Colors", text(d.Design.BrandColors)},
			{"Reference Websites", text(d.Design.ReferenceWebsites)},
		}},
		{"Communication", []BriefField{
			{"Whatsapp Integration", yesNo(d.Communication.WhatsappIntegration)},
			{"Email Marketing", yesNo(d.Communication.EmailMarketing)},
			{"Live Chat", yesNo(d.Communication.LiveChat)},
			{"Contact Form", yesNo(d.Communication.ContactForm)},
		}},
		{"Admin", []BriefField{
			{"Sales Dashboard", yesNo(d.Admin.SalesDashboard)},
			{"Content Management", yesNo(d.Admin.ContentManagement)},
			{"Inventory Management", yesNo(d.Admin.InventoryManagement)},
			{"Analytics", yesNo(d.Admin.Analytics)},
		}},
		{"Logistics", []BriefField{
			{"Shipping Integration", yesNo(d.Logistics.ShippingIntegration)},
			{"Store Pickup", yesNo(d.Logistics.StorePickup)},
			{"Local Delivery", yesNo(d.Logistics.LocalDelivery)},
			{"Zones", text(d.Logistics.Zones)},
		}},
		{"Content", []BriefField{
			{"Has Photos", text(d.Content.HasPhotos)},
			{"Has Text Content", triState(d.Content.HasTextContent)},
			{"Hosting Provider", text(d.Content.HostingProvider)},
			{"Domain Name", text(d.Content.DomainName)},
		}},
		{"Additional Info", []BriefField{
			{"Additional Info", text(d.AdditionalInfo)},
		}},
		{"Summary", []BriefField{
			{"Business Name", text(d.Summary.BusinessName)},
			{"Contact Name", text(d.Summary.ContactName)},
			{"Contact Phone", text(d.Summary.ContactPhone)},
			{"Contact Email", text(d.Summary.ContactEmail)},
		}},
	}
}

// Title is the display name of the brief.
func (b *Brief) Title() string {
	if b.Data.Summary.BusinessName != "" {
		return b.Data.Summary.BusinessName
	}
	return "Unnamed Project"
}

// Submitter is the best available name for whoever sent the brief.
func (b *Brief) Submitter() string {
	switch {
	case b.Data.Summary.ContactName != "":
		return b.Data.Summary.ContactName
	case b.UserName != "":
		return b.UserName
	default:
		return "Anonymous"
	}
}
