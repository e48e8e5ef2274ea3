package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_URL example:
//   mysql://root:root@(127.0.0.1:3306)/caseflow?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	url := os.ExpandEnv(os.Getenv("DATABASE_URL"))
	if url == "" {
		return nil, errors.New("environment variable DATABASE_URL is empty")
	}
	idx := strings.Index(url, "://")
	if idx <= 0 {
		return nil, errors.New("invalid DATABASE_URL: " + url)
	}
	return &DatabaseConfig{DriverType: url[0:idx], DriverArgs: url[idx+3:]}, nil
}

// PrepareMysqlDatabase creates the database named in driverArgs when absent.
func PrepareMysqlDatabase(driverArgs string) error {
	begin := strings.Index(driverArgs, "/")
	if begin < 0 {
		return errors.New("invalid mysql driver args: " + driverArgs)
	}
	end := strings.Index(driverArgs, "?")
	if end < 0 {
		end = len(driverArgs)
	}
	databaseName := driverArgs[begin+1 : end]

	db, err := sql.Open("mysql", driverArgs[0:begin+1])
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName +
		" DEFAULT CHARACTER SET utf8mb4 DEFAULT COLLATE utf8mb4_general_ci")
	return err
}
