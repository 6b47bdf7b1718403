package lib

import (
	"os"
	"path/filepath"
	"strings"
)

/* This file implements logic for 'user controlled' configuration of the governance node surface */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath  = "config.json"  // the file path for the node configuration
	GenesisFilePath = "genesis.json" // the file path for the genesis state of the module
)

// Config is the structure of the user configuration options for a governance node
type Config struct {
	MainConfig  // main options spanning over all components
	RPCConfig   // rpc API options
	StoreConfig // persistence options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:  DefaultMainConfig(),
		RPCConfig:   DefaultRPCConfig(),
		StoreConfig: DefaultStoreConfig(),
	}
}

// MainConfig are the main options spanning over all components
type MainConfig struct {
	LogLevel string `json:"logLevel"` // any level includes the levels above it: debug < info < warning < error
	ChainId  uint64 `json:"chainId"`  // the identifier of the host chain this module is deployed on
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel: "info",
		ChainId:  1,
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch {
	case strings.Contains(strings.ToLower(m.LogLevel), "deb"):
		return DebugLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "inf"):
		return InfoLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "war"):
		return WarnLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "err"):
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// RPCConfig are the rpc API options
type RPCConfig struct {
	RPCPort string `json:"rpcPort"` // the port where the read-only query API is served
	RPCUrl  string `json:"rpcUrl"`  // the url where the read-only query API is served
}

// DefaultRPCConfig() sets the rpc url to localhost and the port to 50002
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RPCPort: "50002",
		RPCUrl:  "http://localhost",
	}
}

// StoreConfig are the persistence options
type StoreConfig struct {
	DataDirPath string `json:"dataDirPath"` // the path of the designated folder where the application stores its data
	DBName      string `json:"dbName"`      // the name of the database file
	InMemory    bool   `json:"inMemory"`    // non-persistent database, only used for testing
}

// DefaultStoreConfig() sets the data dir path to default and the db name to 'meridian'
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DataDirPath: DefaultDataDirPath(),
		DBName:      "meridian",
		InMemory:    false,
	}
}

// DefaultDataDirPath() is $USERHOME/.meridian
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".meridian")
}

// WriteToFile() saves the Config object to a file in JSON form
func (c Config) WriteToFile(filepath string) ErrorI {
	return SaveJSONToFile(c, "", filepath)
}

// NewConfigFromFile() populates a Config object from a file, filling any unset fields with defaults
func NewConfigFromFile(dataDirPath string) (Config, ErrorI) {
	c := DefaultConfig()
	c.DataDirPath = dataDirPath
	path := filepath.Join(dataDirPath, ConfigFilePath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if e := os.MkdirAll(dataDirPath, os.ModePerm); e != nil {
			return Config{}, ErrWriteFile(e)
		}
		if e := c.WriteToFile(path); e != nil {
			return Config{}, e
		}
		return c, nil
	}
	if err := NewJSONFromFile(&c, dataDirPath, ConfigFilePath); err != nil {
		return Config{}, err
	}
	return c, nil
}
