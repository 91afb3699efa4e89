package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("telegram.drop_pending_updates", true)

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.models", []string{"gpt-4o-mini", "gpt-3.5-turbo"})
	v.SetDefault("ai.instruction",
		"Ты - помощник цветочного магазина. Помогаешь клиентам с вопросами о ценах, "+
			"доставке, наличии цветов и графике работы. Отвечай кратко и по делу.")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 500)
	v.SetDefault("ai.presence_penalty", 0.3)
	v.SetDefault("ai.frequency_penalty", 0.3)
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.max_retries", 5)
	v.SetDefault("ai.retry_delay", 5*time.Second)

	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.min_frequency", 3)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.similarity_threshold", 0.8)

	v.SetDefault("dialogue.max_turns", 10)
	v.SetDefault("dialogue.turn_ttl", 24*time.Hour)

	v.SetDefault("inventory.range", "A:E")
	v.SetDefault("inventory.refresh_ttl", 10*time.Minute)

	v.SetDefault("knowledge.refresh_ttl", time.Hour)
	v.SetDefault("knowledge.max_sections", 2)

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"cache_sweep":       {Enabled: true, Schedule: "*/30 * * * *"},
		"knowledge_refresh": {Enabled: true, Schedule: "0 * * * *"},
		"inventory_refresh": {Enabled: true, Schedule: "*/15 * * * *"},
		"sql_maintenance":   {Enabled: true, Schedule: "0 4 * * *"},
	})

	v.SetDefault("messages.greeting", "Здравствуйте, %s! Я помогу вам с заказом цветов.")
	v.SetDefault("messages.apology", "Извините, произошла ошибка. Попробуйте позже.")
	v.SetDefault("messages.not_authorized", "❌ У вас нет прав для выполнения этой команды")
	v.SetDefault("messages.update_done", "✅ Данные успешно обновлены")
	v.SetDefault("messages.update_failed", "❌ Ошибка при обновлении данных")
	v.SetDefault("messages.already_rated", "Вы уже оценили это сообщение")
	v.SetDefault("messages.thanks_like", "Спасибо за положительную оценку! 👍")
	v.SetDefault("messages.thanks_dislike", "Спасибо, сообщение отправлено на доработку")
}
