package conf

import (
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// LoadDefaults seeds every tunable with its shipped value; settings.toml
// only needs to mention the ones a deployment changes.
func LoadDefaults() {
	viper.SetDefault("storage.dsn", "host=localhost user=postgres password=postgres dbname=tribune port=5432 sslmode=disable")
	viper.SetDefault("attachments.path", "files_uploaded")

	viper.SetDefault("limits.name_max", 32)
	viper.SetDefault("limits.title_max", 128)
	viper.SetDefault("limits.content_max", 1024)

	viper.SetDefault("security.password_cost", bcrypt.DefaultCost)

	viper.SetDefault("seed.root_username", "root")
	viper.SetDefault("seed.root_password", "")
}
