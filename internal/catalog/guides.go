package catalog

import "sort"

// Guide описывает тренинг-гайд из библиотеки.
type Guide struct {
	ID          string // Идентификатор в URL
	Title       string
	Description string
	Level       int // Минимальный уровень пакета для доступа
}

// Guides — библиотека гайдов с уровнями доступа.
var Guides = map[string]Guide{
	// Starter guides (level 1)
	"domain-mastery-101":  {ID: "domain-mastery-101", Title: "Domain Mastery 101", Level: 1, Description: "Choose, register & optimize domains for maximum profit"},
	"first-week-success":  {ID: "first-week-success", Title: "First Week Success", Level: 1, Description: "Step-by-step roadmap to your first $100 online"},
	"referral-goldmine":   {ID: "referral-goldmine", Title: "Referral Goldmine", Level: 1, Description: "Proven techniques to turn every contact into revenue"},
	"traffic-secrets":     {ID: "traffic-secrets", Title: "Traffic Secrets", Level: 1, Description: "Free methods to drive visitors to your domains"},
	"profit-optimization": {ID: "profit-optimization", Title: "Profit Optimization", Level: 1, Description: "Scale from $100 to $1000+ monthly"},

	// Pro guides (level 2)
	"facebook-ads-mastery":   {ID: "facebook-ads-mastery", Title: "Facebook Ads Mastery", Level: 2, Description: "Complete guide to profitable ad campaigns"},
	"conversion-psychology":  {ID: "conversion-psychology", Title: "Conversion Psychology", Level: 2, Description: "Turn visitors into buyers"},
	"email-marketing-empire": {ID: "email-marketing-empire", Title: "Email Marketing Empire", Level: 2, Description: "Build automated income streams"},
	"seo-domination":         {ID: "seo-domination", Title: "SEO Domination", Level: 2, Description: "Rank #1 on Google organically"},
	"social-media-profits":   {ID: "social-media-profits", Title: "Social Media Profits", Level: 2, Description: "Monetize every platform effectively"},
	"analytics-tracking":     {ID: "analytics-tracking", Title: "Analytics & Tracking", Level: 2, Description: "Measure and optimize everything"},
	"brand-building-secrets": {ID: "brand-building-secrets", Title: "Brand Building Secrets", Level: 2, Description: "Create memorable online presence"},
	"competitor-analysis":    {ID: "competitor-analysis", Title: "Competitor Analysis", Level: 2, Description: "Steal winning strategies legally"},

	// Elite guides (level 3)
	"six-figure-scaling":    {ID: "six-figure-scaling", Title: "Six-Figure Scaling", Level: 3, Description: "Reach $100k+ annually"},
	"automation-mastery":    {ID: "automation-mastery", Title: "Automation Mastery", Level: 3, Description: "Build passive income systems"},
	"high-ticket-sales":     {ID: "high-ticket-sales", Title: "High-Ticket Sales", Level: 3, Description: "Sell premium products & services"},
	"team-building-secrets": {ID: "team-building-secrets", Title: "Team Building Secrets", Level: 3, Description: "Hire and manage virtual assistants"},
	"investment-strategies": {ID: "investment-strategies", Title: "Investment Strategies", Level: 3, Description: "Reinvest profits for exponential growth"},
	"tax-optimization":      {ID: "tax-optimization", Title: "Tax Optimization", Level: 3, Description: "Keep more of what you earn legally"},
	"exit-strategies":       {ID: "exit-strategies", Title: "Exit Strategies", Level: 3, Description: "Sell your business for maximum value"},

	// Empire guides (level 4)
	"million-dollar-mindset": {ID: "million-dollar-mindset", Title: "Million Dollar Mindset", Level: 4, Description: "Think and act like a millionaire"},
	"multi-stream-income":    {ID: "multi-stream-income", Title: "Multi-Stream Income", Level: 4, Description: "Create 7+ revenue sources"},
	"global-expansion":       {ID: "global-expansion", Title: "Global Expansion", Level: 4, Description: "Scale internationally"},
	"joint-ventures":         {ID: "joint-ventures", Title: "Joint Ventures", Level: 4, Description: "Partner with industry leaders"},
	"personal-branding":      {ID: "personal-branding", Title: "Personal Branding", Level: 4, Description: "Become the go-to expert"},
	"speaking-coaching":      {ID: "speaking-coaching", Title: "Speaking & Coaching", Level: 4, Description: "Monetize your knowledge"},
	"product-creation":       {ID: "product-creation", Title: "Product Creation", Level: 4, Description: "Build digital assets that sell"},
	"licensing-franchising":  {ID: "licensing-franchising", Title: "Licensing & Franchising", Level: 4, Description: "Scale without limits"},
	"investment-portfolio":   {ID: "investment-portfolio", Title: "Investment Portfolio", Level: 4, Description: "Build generational wealth"},
	"legacy-planning":        {ID: "legacy-planning", Title: "Legacy Planning", Level: 4, Description: "Create lasting impact"},
	"advanced-automation":    {ID: "advanced-automation", Title: "Advanced Automation", Level: 4, Description: "Enterprise-level systems"},
	"wealth-protection":      {ID: "wealth-protection", Title: "Wealth Protection", Level: 4, Description: "Secure your financial future"},
	"empire-management":      {ID: "empire-management", Title: "Empire Management", Level: 4, Description: "Manage multiple businesses"},
	"strategic-partnerships": {ID: "strategic-partnerships", Title: "Strategic Partnerships", Level: 4, Description: "Build powerful alliances"},
	"market-domination":      {ID: "market-domination", Title: "Market Domination", Level: 4, Description: "Become the industry leader"},
}

// GetGuide возвращает гайд по идентификатору.
func GetGuide(guideID string) (Guide, bool) {
	g, ok := Guides[guideID]
	return g, ok
}

// AccessibleGuides возвращает гайды, доступные пакету пользователя,
// отсортированные по уровню, затем по названию. Неизвестный пакет
// не открывает ничего.
func AccessibleGuides(packageID string) []Guide {
	pkg, ok := Packages[packageID]
	if !ok {
		return nil
	}

	var accessible []Guide
	for _, g := range Guides {
		if g.Level <= pkg.Level {
			accessible = append(accessible, g)
		}
	}
	sort.Slice(accessible, func(i, j int) bool {
		if accessible[i].Level != accessible[j].Level {
			return accessible[i].Level < accessible[j].Level
		}
		return accessible[i].Title < accessible[j].Title
	})
	return accessible
}

// AllGuides возвращает всю библиотеку в стабильном порядке для дашборда:
// доступные гайды показываются открытыми, остальные — запертыми.
func AllGuides() []Guide {
	all := make([]Guide, 0, len(Guides))
	for _, g := range Guides {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Level != all[j].Level {
			return all[i].Level < all[j].Level
		}
		return all[i].Title < all[j].Title
	})
	return all
}
