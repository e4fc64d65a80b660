package model

// Pair is the byte range of one score's MusicBin stream inside a shard.
type Pair struct {
	Start uint32
	End   uint32
}

type ShardOverview struct {
	Start    string
	End      string
	Filename string
	Scores   int
}

type ShardIndex = map[string]Pair
type FileNum = uint32
type FileNumToScorePath = map[FileNum]string

// ScoreManifest describes one converted score.
type ScoreManifest struct {
	Path      string `json:"path" dynamodbav:"PK"`
	FileNum   uint32 `json:"file_num"`
	Shard     string `json:"shard"`
	Elements  int    `json:"elements"`
	Divisions uint32 `json:"divisions"`
	Voices    int    `json:"voices"`
	Parts     int    `json:"parts"`
}
