package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

type ConfigSchema struct {
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Databases struct {
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"databases"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	RabbitMQ struct {
		URL string `yaml:"url"`
	} `yaml:"rabbitmq"`
	Fanout struct {
		Workers int `yaml:"workers"`
	} `yaml:"fanout"`
	Reconciler struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"reconciler"`
	Logs struct {
		Level string `yaml:"level"`
	} `yaml:"logs"`
}

var AppConfig *ConfigSchema

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var conf ConfigSchema
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return err
	}
	AppConfig = &conf
	return nil
}
