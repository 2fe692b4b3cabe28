/*
Package config fournit la configuration centralisée du pont d'événements commerce.

Ce paquet contient toutes les constantes et structures de configuration
partagées entre le module bridge, les sinks de suivi et la console de débogage.
*/
package config

import "time"

// Modes de suivi acceptés par le module
const (
	ModeProduction = "production"
	ModeDebug      = "debug"
)

// Environnements d'exécution
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Types de sink acceptés
const (
	SinkKafka = "kafka"
	SinkFile  = "file"
)

// Configuration par défaut de Kafka
const (
	DefaultKafkaBroker = "localhost:9092"
	DefaultTopic       = "commerce-events"
)

// Fichiers de logs
const (
	BridgeLogFile    = "bridge.log"
	BridgeEventsFile = "bridge.events"
	DebugExportFile  = "debug-session.txt"
)

// Délais et intervalles communs
const (
	FlushTimeoutMs = 15000
)

// Constantes pour le module bridge
const (
	BridgeServiceName     = "commerce-bridge"
	DefaultDomain         = "demo"
	DefaultMode           = ModeProduction
	SinkDeliveryQueueSize = 1000
)

// Constantes pour la console de débogage
const (
	ConsoleUIUpdateInterval = 500 * time.Millisecond
	ConsoleMaxHistoryRows   = 50
	ConsoleMaxRowLength     = 90
	ConsoleTruncateSuffix   = "..."
)
