/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package config holds the tuning knobs of the query engine. Everything spec.md
calls out as a "magic constant" (selectivity fallbacks, statistics sample
size, task-join prefetch window) is exposed here so it can be overridden from
a config file instead of buried in code.
*/
package config

import (
	"fmt"
	"strconv"

	"github.com/klauspost/cpuid/v2"
	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/fileutil"
)

/*
DefaultConfigFile is the default config file which will be used to configure
the engine.
*/
var DefaultConfigFile = "annisgraph.config.json"

/*
Known configuration options.
*/
const (
	DefaultSelectivity     = "DefaultSelectivity"
	DefaultBaseTuples      = "DefaultBaseTuples"
	StatisticsSampleSize   = "StatisticsSampleSize"
	StatisticsMaxBuckets   = "StatisticsMaxBuckets"
	TaskJoinPrefetchWindow = "TaskJoinPrefetchWindow"
	TaskJoinWorkerCount    = "TaskJoinWorkerCount"
	DBCacheMaxBytes        = "DBCacheMaxBytes"
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	DefaultSelectivity:     0.1,
	DefaultBaseTuples:      100000,
	StatisticsSampleSize:   2500,
	StatisticsMaxBuckets:   251,
	TaskJoinPrefetchWindow: 128,
	TaskJoinWorkerCount:    0, // 0 means "use hardware concurrency"
	DBCacheMaxBytes:        1 << 30,
}

/*
Config is the actual configuration in use.
*/
var Config map[string]interface{}

func init() {
	LoadDefaultConfig()
}

/*
LoadConfigFile loads a given config file. If the config file does not exist
it is created with the default options.
*/
func LoadConfigFile(configfile string) error {
	var err error

	Config, err = fileutil.LoadConfig(configfile, DefaultConfig)

	return err
}

/*
LoadDefaultConfig loads the default configuration.
*/
func LoadDefaultConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int64 {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
Float reads a config value as a float value.
*/
func Float(key string) float64 {
	ret, err := strconv.ParseFloat(fmt.Sprint(Config[key]), 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
TaskJoinWorkers resolves the configured worker pool size for the task-index
join, falling back to the number of logical cores when the config value is 0.
*/
func TaskJoinWorkers() int {
	if n := Int(TaskJoinWorkerCount); n > 0 {
		return int(n)
	}

	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}

	return 1
}
