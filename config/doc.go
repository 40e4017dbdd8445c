// Package config loads service configuration from config.yml, an optional
// .env file and the process environment using viper and godotenv.
//
// # Usage
//
//	var cfg Config
//	if err := config.LoadConfig("lecturekit", &cfg); err != nil { ... }
//
// Environment variables override file values. LLM_API_KEY is bound to
// llm.api_key, llm_api_key and llm.api.key so nested sections pick it up
// without explicit binding.
package config
