package constants

import "os"

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v != "" {
		return v
	}
	return fallback
}

func GetOutDir() string {
	return getenv("MUSICBIN_OUT_DIR", "./out")
}

func GetLogLevel() string {
	return getenv("MUSICBIN_LOG_LEVEL", "info")
}

func GetAddr() string {
	return getenv("MUSICBIN_ADDR", ":8080")
}

// GetDynamoEndpoint is empty when no manifest store is configured.
func GetDynamoEndpoint() string {
	return os.Getenv("MUSICBIN_DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	return getenv("MUSICBIN_DYNAMO_TABLE", "musicbin-manifest")
}

func GetDynamoRegion() string {
	return getenv("MUSICBIN_DYNAMO_REGION", "us-east-1")
}

// Every MusicBin record is one 32-bit word.
const RecordSize = 4

const PreferredShardSize = 64 * 1024 * 1024

const FileNumMapName = "file-num-to-path.bin"

const ShardsName = "shards.bin"

const StagingDirName = "staging"
