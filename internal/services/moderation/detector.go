// Package moderation содержит контентный фильтр чата и менеджер банов.
//
// Фильтр — намеренно простой поиск подстрок по поддерживаемым спискам фраз:
// нулевые зависимости, низкая точность и полнота. Порядок проверок важен:
// белый список легитимных бизнес-формулировок проверяется первым, иначе
// честный вопрос про маркетинг, упоминающий бренд, попадал бы под фильтр.
package moderation

import "strings"

// Фразы, однозначно указывающие на легитимный бизнес-вопрос.
// Проверяются до всех остальных списков.
var legitimatePhrases = []string{
	"market my",
	"marketing strategy",
	"marketing plan",
	"marketing campaign",
	"sales strategy",
	"sales funnel",
	"grow my business",
	"grow my domain",
	"business growth",
	"lead generation",
	"generate leads",
	"competitive strategy",
	"competitor analysis",
	"promote my",
	"advertise my",
	"brand awareness",
	"referral strategy",
}

// Фразы попыток обойти оплату, взломать или скопировать систему,
// либо прямых атак на бренд, включая известные опечатки.
var exploitationPhrases = []string{
	// Обход оплаты.
	"without paying",
	"bypass payment",
	"bypass the payment",
	"avoid paying",
	"skip payment",
	"dont want to pay",
	"don't want to pay",
	"get empire free",
	"free empire",
	"free access",
	"unlock all guides free",
	"crack the",
	"pirated",
	// Взлом и копирование системы.
	"hack",
	"exploit",
	"sql injection",
	"bypass security",
	"steal your",
	"steal the",
	"clone your",
	"copy your site",
	"rip off your",
	"scrape your",
	"ddos",
	"take down your",
	// Атаки на бренд и его варианты.
	"rizzosai is a scam",
	"rizzos ai is a scam",
	"rizzosai scam",
	"expose rizzosai",
	"destroy rizzosai",
	"rizosai scam",
	"rizzoai scam",
}

// Варианты написания бренда для составной эвристики.
var brandVariants = []string{
	"rizzosai",
	"rizzos ai",
	"rizzo's ai",
	"rizzos-ai",
	"rizosai",
	"rizzoai",
	"rizzosia",
}

// Глаголы злонамеренного действия для составной эвристики.
var maliciousVerbs = []string{
	"take over",
	"takeover",
	"beat",
	"replace",
	"steal",
	"hack",
	"exploit",
	"clone",
	"destroy",
	"bring down",
	"undercut",
	"sabotage",
}

// Смягчающие уточнения: вопрос про бренд с таким уточнением
// считается легитимным.
var legitimizingQualifiers = []string{
	"how to",
	"legally",
	"ethically",
	"strategy",
	"business",
	"marketing",
}

// IsExploitationAttempt решает, является ли сообщение попыткой получить
// неоплаченный доступ или скомпрометировать систему. Чистая функция над
// текстом в нижнем регистре, без побочных эффектов.
//
// Порядок фаз фиксирован: белый список -> черный список -> составная
// эвристика "бренд + глагол" -> false.
func IsExploitationAttempt(text string) bool {
	lower := strings.ToLower(text)

	for _, phrase := range legitimatePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	for _, phrase := range exploitationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	if containsAny(lower, brandVariants) && containsAny(lower, maliciousVerbs) {
		if containsAny(lower, legitimizingQualifiers) {
			return false
		}
		return true
	}

	return false
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
