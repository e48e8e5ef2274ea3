package main

import (
	"caseflow/client/es"
	"caseflow/client/s3"
	"caseflow/common"
	"caseflow/domain"
	"caseflow/domain/form"
	"caseflow/domain/message"
	"caseflow/domain/schema"
	"caseflow/event"
	"caseflow/indices"
	"caseflow/infra/tracing"
	"caseflow/persistence"
	"caseflow/servehttp"
	"log"
)

func main() {
	log.Println("service start")
	common.InitLogging()

	closer, err := tracing.Bootstrap(common.GetServiceName())
	if err != nil {
		log.Printf("tracing disabled: %v\n", err)
	} else {
		defer closer.Close()
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&domain.Transaction{},
		&domain.TransactionDefinition{},
		&schema.SchemaRecord{},
		&form.FormConfiguration{},
		&message.Message{},
		&event.EventRecord{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	es.CreateClientFromEnv()
	s3.Bootstrap()

	event.EventHandlers = append(event.EventHandlers, indices.IndexTransactionEventHandle)

	engine := servehttp.BuildHTTPEngine()
	servehttp.StartHTTPServer(engine)
}
