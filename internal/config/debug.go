package config

import "os"

func IsDebug() bool {
	return os.Getenv("CHANGLI_DEBUG") == "1"
}
