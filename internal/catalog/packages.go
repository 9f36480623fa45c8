// Package catalog содержит статические справочники тарифных пакетов и
// тренинг-гайдов, а также логику проверки доступа по числовому уровню.
// Справочники не изменяются во время работы приложения.
package catalog

// Package описывает тарифный пакет.
type Package struct {
	ID       string   // Идентификатор пакета
	Name     string   // Отображаемое название
	Price    string   // Цена строкой, как выводится на страницах
	Guides   int      // Количество доступных гайдов
	Level    int      // Числовой уровень доступа, монотонно растет с ценой
	Features []string // Список возможностей для страницы апгрейда и промпта
}

// DefaultPackage — пакет по умолчанию: неизвестный или отсутствующий
// идентификатор деградирует до starter, а не приводит к ошибке.
const DefaultPackage = "starter"

// Packages — справочник пакетов. Порядок уровней: 1..4.
var Packages = map[string]Package{
	"starter": {
		ID:     "starter",
		Name:   "Starter Package",
		Price:  "$29",
		Guides: 5,
		Level:  1,
		Features: []string{
			"Full access to your back office",
			"First referral goes to you",
			"Second referral goes to the owner",
			"Third and all future referrals are yours for lifetime",
			"Lifetime earnings go into your account every day",
			"Fast daily payments",
		},
	},
	"pro": {
		ID:     "pro",
		Name:   "Pro Package",
		Price:  "$99",
		Guides: 13,
		Level:  2,
		Features: []string{
			"Everything in Starter ($29)",
			"PLUS: Your own $10 Facebook ads—guaranteed results",
			"Includes your own tracking URL for ad performance",
			"All daily earnings and fast payments included",
		},
	},
	"elite": {
		ID:     "elite",
		Name:   "Elite Package",
		Price:  "$249",
		Guides: 20,
		Level:  3,
		Features: []string{
			"Everything in Starter ($29) and Pro ($99)",
			"PLUS: $50 worth of Facebook ads (run once for you)",
			"All daily earnings, fast payments, and ad tracking included",
		},
	},
	"empire": {
		ID:     "empire",
		Name:   "Empire Package",
		Price:  "$499",
		Guides: 35,
		Level:  4,
		Features: []string{
			"Everything in Starter ($29), Pro ($99), and Elite ($249)",
			"PLUS: $100 worth of Facebook ads (run once for you)",
			"All daily earnings, fast payments, and ad tracking included",
			"Own your own site like ours, with your own domain",
			"Includes your own cloud hosting account",
			"You can sell cloud hosting to others and earn more",
		},
	},
}

// Get возвращает пакет по идентификатору. Неизвестный идентификатор
// деградирует до starter.
func Get(packageID string) Package {
	if pkg, ok := Packages[packageID]; ok {
		return pkg
	}
	return Packages[DefaultPackage]
}

// HasAccess решает, открывает ли пакет контент требуемого уровня.
// Пустой или неизвестный идентификатор пакета доступа не дает.
func HasAccess(packageID string, requiredLevel int) bool {
	pkg, ok := Packages[packageID]
	if !ok {
		return false
	}
	return pkg.Level >= requiredLevel
}

// LevelName возвращает название пакета, открывающего указанный уровень.
// Используется в сообщениях об отказе в доступе.
func LevelName(level int) string {
	for _, pkg := range Packages {
		if pkg.Level == level {
			return pkg.Name
		}
	}
	return "Unknown Package"
}
