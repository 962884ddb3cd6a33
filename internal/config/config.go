package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  No se encontró .env — seguimos con las variables de entorno del sistema")
	} else {
		log.Println("✅ Archivo .env cargado")
	}
}

// Get lee una variable de entorno con valor por defecto
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustGet corta el arranque si falta una variable obligatoria
func MustGet(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("❌ Falta la variable de entorno %s", key)
	}
	return v
}
