// Package db records a manifest row per converted score in DynamoDB.
package db

import (
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/util"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// maxBatchGet is the key limit of one BatchGetItem call.
const maxBatchGet = 100

type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewStore(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

func Connect(endpoint, region, table string) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewStore(dynamodb.New(sess), table), nil
}

func (s *Store) Put(m model.ScoreManifest) error {
	item, err := dynamodbattribute.MarshalMap(m)
	if err != nil {
		return errors.Wrap(err, "could not marshal manifest")
	}
	_, err = s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return errors.Wrap(err, "error from DynamoDB")
}

// Get looks up the manifests of paths. Paths without a row are absent
// from the result.
func (s *Store) Get(paths []string) (map[string]model.ScoreManifest, error) {
	res := make(map[string]model.ScoreManifest)
	for len(paths) > 0 {
		n := util.Min(len(paths), maxBatchGet)
		if err := s.getBatch(paths[:n], res); err != nil {
			return nil, err
		}
		paths = paths[n:]
	}
	return res, nil
}

func (s *Store) getBatch(paths []string, res map[string]model.ScoreManifest) error {
	var keys []map[string]*dynamodb.AttributeValue
	for _, path := range paths {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(path)},
		})
	}
	out, err := s.client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	})
	if err != nil {
		return errors.Wrap(err, "error from DynamoDB")
	}
	for _, item := range out.Responses[s.table] {
		var m model.ScoreManifest
		if err := dynamodbattribute.UnmarshalMap(item, &m); err != nil {
			return errors.Wrap(err, "could not unmarshal manifest")
		}
		res[m.Path] = m
	}
	return nil
}
