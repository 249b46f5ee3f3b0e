package config

import "os"

func IsDebug() bool {
	return os.Getenv("JARVIS_DEBUG") == "1"
}
