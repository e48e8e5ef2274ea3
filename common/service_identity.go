package common

import (
	"os"
	"sync"
)

var (
	serviceName     string
	serviceInstance string
	identityOnce    sync.Once
)

func GetServiceName() string {
	loadServiceIdentity()
	return serviceName
}

func GetServiceInstance() string {
	loadServiceIdentity()
	return serviceInstance
}

func loadServiceIdentity() {
	identityOnce.Do(func() {
		serviceName = os.Getenv("SERVICE_NAME")
		if serviceName == "" {
			serviceName = "caseflow"
		}
		serviceInstance, _ = os.Hostname()
	})
}
