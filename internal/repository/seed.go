package repository

import "github.com/mmeshcher/sizbot-system/internal/model"

// Сезоны справочника СИЗ.
const (
	SeasonSummer = "Летний"
	SeasonWinter = "Зимний"
)

// DefaultCatalog возвращает исходное наполнение справочника СИЗ.
// Порядок строк определяет порядок показа позиций пользователю.
// Дальнейшее развитие справочника — административная операция,
// через обычную работу сервиса справочник не изменяется.
func DefaultCatalog() []model.CatalogEntry {
	return []model.CatalogEntry{
		{Role: "Инженер", Season: SeasonSummer, Item: "Каска защитная", StandardQuantity: 1},
		{Role: "Инженер", Season: SeasonSummer, Item: "Очки защитные", StandardQuantity: 1},
		{Role: "Инженер", Season: SeasonSummer, Item: "Перчатки", StandardQuantity: 2},
		{Role: "Инженер", Season: SeasonWinter, Item: "Утепленная куртка", StandardQuantity: 1},
		{Role: "Инженер", Season: SeasonWinter, Item: "Утепленные ботинки", StandardQuantity: 1},

		{Role: "Электрик", Season: SeasonSummer, Item: "Каска защитная", StandardQuantity: 1},
		{Role: "Электрик", Season: SeasonSummer, Item: "Перчатки диэлектрические", StandardQuantity: 2},
		{Role: "Электрик", Season: SeasonSummer, Item: "Очки защитные", StandardQuantity: 1},
		{Role: "Электрик", Season: SeasonWinter, Item: "Утепленная куртка", StandardQuantity: 1},
		{Role: "Электрик", Season: SeasonWinter, Item: "Утепленные ботинки", StandardQuantity: 1},

		{Role: "Сварщик", Season: SeasonSummer, Item: "Маска сварщика", StandardQuantity: 1},
		{Role: "Сварщик", Season: SeasonSummer, Item: "Краги", StandardQuantity: 2},
		{Role: "Сварщик", Season: SeasonSummer, Item: "Спецкостюм", StandardQuantity: 1},
		{Role: "Сварщик", Season: SeasonWinter, Item: "Утепленный спецкостюм", StandardQuantity: 1},
		{Role: "Сварщик", Season: SeasonWinter, Item: "Утепленные перчатки", StandardQuantity: 2},

		{Role: "Слесарь", Season: SeasonSummer, Item: "Комбинезон", StandardQuantity: 1},
		{Role: "Слесарь", Season: SeasonSummer, Item: "Перчатки", StandardQuantity: 4},
		{Role: "Слесарь", Season: SeasonWinter, Item: "Утепленный комбинезон", StandardQuantity: 1},
		{Role: "Слесарь", Season: SeasonWinter, Item: "Утепленные перчатки", StandardQuantity: 4},
	}
}
