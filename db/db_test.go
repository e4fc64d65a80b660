package db

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches int
	fail    bool
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.fail {
		return nil, errors.New("throttled")
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	f.batches++
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestStore(t *testing.T) {
	assert := assert.New(t)
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	s := NewStore(fake, "manifest")

	m := model.ScoreManifest{Path: "a.musicxml", FileNum: 3, Shard: "x.dat", Elements: 40, Divisions: 12, Voices: 2, Parts: 1}
	assert.Nil(s.Put(m))
	assert.Equal(aws.String("12"), fake.items["a.musicxml"]["divisions"].N)

	got, err := s.Get([]string{"a.musicxml", "missing.musicxml"})
	assert.Nil(err)
	assert.Equal(map[string]model.ScoreManifest{"a.musicxml": m}, got)

	t.Run("large lookups are batched", func(t *testing.T) {
		fake.batches = 0
		paths := make([]string, 250)
		for i := range paths {
			paths[i] = "a.musicxml"
		}
		_, err := s.Get(paths)
		assert.Nil(err)
		assert.Equal(3, fake.batches)
	})

	t.Run("errors surface", func(t *testing.T) {
		fake.fail = true
		assert.NotNil(s.Put(m))
	})
}
