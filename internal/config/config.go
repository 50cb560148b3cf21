package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port     string
		LogLevel string
	}
	Gemini struct {
		APIKey         string
		Model          string
		DeckModel      string
		TimeoutSeconds int
	}
	Presenter struct {
		AgentName     string
		DefaultSlides int
		MaxSlides     int
		DeckFile      string
	}
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.deck_model", "gemini-2.5-flash-lite")
	v.SetDefault("gemini.timeout_seconds", 30)

	v.SetDefault("presenter.agent_name", "gemini-presentation-agent")
	v.SetDefault("presenter.default_slides", 6)
	v.SetDefault("presenter.max_slides", 20)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")

	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini.model", "GEMINI_MODEL")
	v.BindEnv("gemini.deck_model", "GEMINI_DECK_MODEL")
	v.BindEnv("gemini.timeout_seconds", "GEMINI_TIMEOUT_SECONDS")

	v.BindEnv("presenter.agent_name", "PRESENTER_AGENT_NAME")
	v.BindEnv("presenter.default_slides", "PRESENTER_DEFAULT_SLIDES")
	v.BindEnv("presenter.max_slides", "PRESENTER_MAX_SLIDES")
	v.BindEnv("presenter.deck_file", "PRESENTER_DECK_FILE")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.LogLevel = v.GetString("server.log_level")

	c.Gemini.APIKey = v.GetString("gemini.api_key")
	c.Gemini.Model = v.GetString("gemini.model")
	c.Gemini.DeckModel = v.GetString("gemini.deck_model")
	c.Gemini.TimeoutSeconds = v.GetInt("gemini.timeout_seconds")

	c.Presenter.AgentName = v.GetString("presenter.agent_name")
	c.Presenter.DefaultSlides = v.GetInt("presenter.default_slides")
	c.Presenter.MaxSlides = v.GetInt("presenter.max_slides")
	c.Presenter.DeckFile = v.GetString("presenter.deck_file")

	log.Printf("config loaded: port=%s model=%s deck_model=%s", c.Server.Port, c.Gemini.Model, c.Gemini.DeckModel)
	return c
}

func toString(v any) string { return fmt.Sprint(v) }
