/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"bytes"
	"fmt"
	"os"

	"github.com/IBM/sarama"
	"github.com/spf13/viper"
)

// ProducerClientID is the kafka client id of every producer unless the config overrides it.
const ProducerClientID = "canseq"

// ParseProducerConfig decodes a yaml sarama config on top of the producer defaults. The sequence
// is produced in order, so acks default to all replicas and idempotence is left to the file.
// Successes are always returned because the sync producer needs them.
func ParseProducerConfig(data []byte) (*sarama.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to read producer config: %w", err)
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = ProducerClientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode producer config: %w", err)
	}
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid producer config: %w", err)
	}
	return cfg, nil
}

// LoadProducerConfig reads ParseProducerConfig input from path. An empty path yields the defaults.
func LoadProducerConfig(path string) (*sarama.Config, error) {
	if path == "" {
		return ParseProducerConfig(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read producer config %q: %w", path, err)
	}
	return ParseProducerConfig(data)
}
