// Package batch converts a directory of MusicXML scores into a MusicBin
// dataset: shard files, a file number map and optional manifest rows.
package batch

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/musicbin/bucket"
	"github.com/jsphweid/musicbin/chunk"
	"github.com/jsphweid/musicbin/constants"
	"github.com/jsphweid/musicbin/convert"
	"github.com/jsphweid/musicbin/file"
	"github.com/jsphweid/musicbin/logging"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/musicbin"
	"github.com/jsphweid/musicbin/util"
	"github.com/pkg/errors"
)

// ManifestStore receives one row per converted score.
type ManifestStore interface {
	Put(m model.ScoreManifest) error
}

// ManifestLookup reads manifest rows back by score path.
type ManifestLookup interface {
	Get(paths []string) (map[string]model.ScoreManifest, error)
}

type Options struct {
	InDir     string
	OutDir    string
	MaxFiles  int
	ShardSize int
	Store     ManifestStore
}

type Result struct {
	Converted int
	Skipped   int
	Shards    []model.ShardOverview
}

func convertScore(path string) ([]byte, model.ScoreManifest, error) {
	var m model.ScoreManifest
	f, err := os.Open(path)
	if err != nil {
		return nil, m, errors.WithStack(err)
	}
	defer f.Close()

	pm, err := convert.XMLToIR(f)
	if err != nil {
		return nil, m, err
	}
	mp, err := convert.FirstPart(pm)
	if err != nil {
		return nil, m, err
	}
	data, err := musicbin.Encode(mp.Elements())
	if err != nil {
		return nil, m, err
	}
	m = model.ScoreManifest{
		Path:      path,
		Elements:  len(mp.Elements()),
		Divisions: mp.Divisions(),
		Voices:    mp.NumVoices(),
		Parts:     pm.NumParts(),
	}
	return data, m, nil
}

func Run(opts Options) (Result, error) {
	var res Result
	if opts.ShardSize <= 0 {
		opts.ShardSize = constants.PreferredShardSize
	}
	paths, err := util.GatherScorePaths(opts.InDir, opts.MaxFiles)
	if err != nil {
		return res, err
	}
	if err := util.RecreateDir(opts.OutDir); err != nil {
		return res, err
	}
	staging := filepath.Join(opts.OutDir, constants.StagingDirName)
	if err := os.MkdirAll(staging, 0777); err != nil {
		return res, errors.WithStack(err)
	}

	fileNumMap := file.CreateFileNumMap(paths)
	manifests := make(map[string]model.ScoreManifest)
	progress := debounce.New(500 * time.Millisecond)
	for _, num := range util.GetSortedKeys(fileNumMap) {
		path := fileNumMap[num]
		data, m, err := convertScore(path)
		if err != nil {
			logging.Warnf("Skipping %v because: %v", path, err)
			res.Skipped++
			continue
		}
		if err := bucket.Put(staging, num, data); err != nil {
			return res, err
		}
		m.FileNum = num
		manifests[bucket.Key(num)] = m
		res.Converted++

		done, total := int(num)+1, len(paths)
		progress(func() { logging.Infof("Processed %v of %v scores", done, total) })
	}

	res.Shards, err = chunk.CreateAll(staging, opts.OutDir, opts.ShardSize)
	if err != nil {
		return res, err
	}
	if err := assignShards(opts.OutDir, res.Shards, manifests); err != nil {
		return res, err
	}
	if opts.Store != nil {
		for _, key := range util.GetSortedKeys(manifests) {
			if err := opts.Store.Put(manifests[key]); err != nil {
				return res, err
			}
		}
	}

	if err := util.CreateBinary(filepath.Join(opts.OutDir, constants.ShardsName), res.Shards); err != nil {
		return res, err
	}
	if err := file.SaveFileNumMap(opts.OutDir, fileNumMap); err != nil {
		return res, err
	}
	if err := bucket.DeleteAll(staging); err != nil {
		return res, err
	}
	if err := os.Remove(staging); err != nil {
		return res, errors.WithStack(err)
	}
	logging.Infof("Converted %v scores into %v shards, skipped %v", res.Converted, len(res.Shards), res.Skipped)
	return res, nil
}

func assignShards(outDir string, shards []model.ShardOverview, manifests map[string]model.ScoreManifest) error {
	for _, s := range shards {
		index, err := chunk.ReadIndex(filepath.Join(outDir, s.Filename))
		if err != nil {
			return err
		}
		for key := range index {
			m := manifests[key]
			m.Shard = s.Filename
			manifests[key] = m
		}
	}
	return nil
}

// Lookup reads the MusicBin stream of the score numbered fileNum from a
// dataset in outDir.
func Lookup(outDir string, fileNum model.FileNum) ([]byte, error) {
	shards, err := util.ReadBinary[[]model.ShardOverview](filepath.Join(outDir, constants.ShardsName))
	if err != nil {
		return nil, err
	}
	key := bucket.Key(fileNum)
	for _, s := range shards {
		if key >= s.Start && key <= s.End {
			return chunk.ReadEntry(filepath.Join(outDir, s.Filename), key)
		}
	}
	return nil, errors.Wrapf(chunk.ErrMissingEntry, "score %v", fileNum)
}

var shardName = regexp.MustCompile("^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}.dat$")

type Report struct {
	NumShards       int
	NumScores       int
	TotalBytes      int64
	DataBytes       int64
	AvgIndexPercent float32
}

// Analyze measures the shards in outDir and how much of them is index.
func Analyze(outDir string) (Report, error) {
	var report Report
	files, err := os.ReadDir(outDir)
	if err != nil {
		return report, errors.Wrap(err, "could not read dir "+outDir)
	}
	for _, f := range files {
		if !shardName.MatchString(f.Name()) {
			continue
		}
		path := filepath.Join(outDir, f.Name())
		index, err := chunk.ReadIndex(path)
		if err != nil {
			return report, err
		}
		info, err := f.Info()
		if err != nil {
			return report, errors.WithStack(err)
		}
		sizes := make([]uint32, 0, len(index))
		for _, p := range index {
			sizes = append(sizes, p.End-p.Start)
		}
		report.NumShards++
		report.NumScores += len(index)
		report.TotalBytes += info.Size()
		report.DataBytes += int64(util.Sum(sizes))
	}
	if report.TotalBytes > 0 {
		report.AvgIndexPercent = float32(report.TotalBytes-report.DataBytes) / float32(report.TotalBytes)
	}
	return report, nil
}

// Manifests reads back the manifest rows of the dataset in outDir in file
// number order. Skipped scores have no row.
func Manifests(outDir string, store ManifestLookup) ([]model.ScoreManifest, error) {
	fileNumMap, err := file.LoadFileNumMap(outDir)
	if err != nil {
		return nil, err
	}
	nums := util.GetSortedKeys(fileNumMap)
	paths := make([]string, 0, len(nums))
	for _, num := range nums {
		paths = append(paths, fileNumMap[num])
	}
	rows, err := store.Get(paths)
	if err != nil {
		return nil, err
	}
	var res []model.ScoreManifest
	for _, path := range paths {
		if m, ok := rows[path]; ok {
			res = append(res, m)
		}
	}
	return res, nil
}
