package main

type Config struct {
	Host              string `env:"HOST,default=localhost"`
	Port              int    `env:"PORT,default=4000" validate:"min=1,max=65535"`
	RoomCapacity      int    `env:"ROOM_CAPACITY,default=10" validate:"min=2"`
	HistoryLimit      int    `env:"HISTORY_LIMIT,default=10" validate:"min=1"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
	CensoredWordsFile string `env:"CENSORED_WORDS_FILE"`
	CensoredChar      string `env:"CENSORED_CHARACTER,default=*"`
}
