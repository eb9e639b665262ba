package dialog

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

// Надписи кнопок и тексты ответов. Автомат оперирует только плоскими
// структурами Prompt, оформление — на транспортном адаптере.
const (
	ButtonOrder     = "🛡️ Заказать СИЗ"
	ButtonComplaint = "🚨 Сообщить о нарушении"
	ButtonStats     = "📊 Статистика нарушений"
	ButtonDocuments = "📄 Нормативные документы"
	ButtonBack      = "↩️ Назад"
	ButtonCancel    = "↩️ Отмена"

	SeasonSummer = "Летний"
	SeasonWinter = "Зимний"

	// ComplaintCategory — фиксированная категория сообщений о нарушениях.
	ComplaintCategory = "Сообщение от сотрудника"
)

const (
	textGreeting        = "Добро пожаловать!\n\nДля начала работы введите ваш табельный номер:"
	textBadTabel        = "Некорректный табельный номер. Попробуйте еще раз:"
	textMainMenu        = "Выберите действие:"
	textChooseSeason    = "Выберите сезон СИЗ:"
	textChooseFromMenu  = "Выберите действие с помощью кнопок меню."
	textChooseSeasonBtn = "Выберите сезон с помощью кнопок:"
	textChooseItem      = "Выберите позицию из списка:"
	textNoItems         = "Для вашей должности СИЗ не найдены"
	textComplaintAsk    = "Опишите нарушение (анонимно):"
	textComplaintDone   = "✅ Сообщение о нарушении отправлено анонимно!\nСпасибо за вашу бдительность."
	textChooseRole      = "Выберите должность:"
	textNoDocument      = "Документ для этой должности не найден"
	textStorageFailure  = "Произошла ошибка, попробуйте позже."
)

func mainMenuOptions() [][]string {
	return [][]string{
		{ButtonOrder},
		{ButtonComplaint},
		{ButtonStats},
		{ButtonDocuments},
	}
}

func mainMenuPrompt(text string) model.Prompt {
	return model.Prompt{Text: text, Options: mainMenuOptions()}
}

func greetingPrompt() model.Prompt {
	return model.Prompt{Text: textGreeting}
}

func seasonPrompt(text string) model.Prompt {
	return model.Prompt{
		Text: text,
		Options: [][]string{
			{SeasonSummer, SeasonWinter},
			{ButtonBack},
		},
	}
}

func itemsPrompt(text string, items []model.CatalogEntry) model.Prompt {
	options := make([][]string, 0, len(items)+1)
	for _, it := range items {
		options = append(options, []string{ItemLabel(it)})
	}
	options = append(options, []string{ButtonBack})
	return model.Prompt{Text: text, Options: options}
}

func complaintPrompt() model.Prompt {
	return model.Prompt{
		Text:    textComplaintAsk,
		Options: [][]string{{ButtonCancel}},
	}
}

func rolesPrompt(text string, roles []string) model.Prompt {
	options := make([][]string, 0, len(roles)+1)
	for _, r := range roles {
		options = append(options, []string{r})
	}
	options = append(options, []string{ButtonBack})
	return model.Prompt{Text: text, Options: options}
}

// ItemLabel строит надпись кнопки для позиции справочника.
// Выбор позиции разбирается обратно точным совпадением префикса,
// поэтому формат надписи фиксирован.
func ItemLabel(entry model.CatalogEntry) string {
	return fmt.Sprintf("%s (норма: %d шт.)", entry.Item, entry.StandardQuantity)
}

// matchSnapshotItem разрешает текст выбора против снимка каталога.
// Принимается либо полная надпись кнопки, либо каноническое имя позиции.
func matchSnapshotItem(text string, items []model.CatalogEntry) (model.CatalogEntry, bool) {
	name := text
	if i := strings.Index(text, " (норма:"); i >= 0 {
		name = text[:i]
	}
	for _, it := range items {
		if it.Item == name {
			return it, true
		}
	}
	return model.CatalogEntry{}, false
}
