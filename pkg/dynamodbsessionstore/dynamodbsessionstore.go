package dynamodbsessionstore

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/weberc2/passwordreset/pkg/types"
)

const attrSession = "Session"

type DynamoDBSessionStore struct {
	Client dynamodbiface.DynamoDBAPI
	Table  string
}

func (ddbss *DynamoDBSessionStore) Load(
	id types.SessionID,
) (*types.Session, error) {
	rsp, err := ddbss.Client.GetItem(&dynamodb.GetItemInput{
		TableName:      aws.String(ddbss.Table),
		Key:            sessionKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("loading session `%s`: %w", id, err)
	}
	return attributesToSession(rsp.Item), nil
}

func (ddbss *DynamoDBSessionStore) Save(
	id types.SessionID,
	s *types.Session,
) error {
	if _, err := ddbss.Client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(ddbss.Table),
		Item:      sessionToAttributes(id, s),
	}); err != nil {
		return fmt.Errorf("saving session `%s`: %w", id, err)
	}
	return nil
}

func (ddbss *DynamoDBSessionStore) Clear(id types.SessionID) error {
	if _, err := ddbss.Client.DeleteItem(&dynamodb.DeleteItemInput{
		TableName: aws.String(ddbss.Table),
		Key:       sessionKey(id),
	}); err != nil {
		return fmt.Errorf("clearing session `%s`: %w", id, err)
	}
	return nil
}

func sessionKey(id types.SessionID) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		attrSession: {S: aws.String(string(id))},
	}
}

// DynamoDB rejects empty string attributes on older tables, so unset fields
// are omitted rather than stored as "".
func sessionToAttributes(
	id types.SessionID,
	s *types.Session,
) map[string]*dynamodb.AttributeValue {
	attrs := sessionKey(id)
	if s.Email != "" {
		attrs[types.KeyResetEmail] = &dynamodb.AttributeValue{
			S: aws.String(s.Email),
		}
	}
	if s.OTP != "" {
		attrs[types.KeyVerifiedOTP] = &dynamodb.AttributeValue{
			S: aws.String(s.OTP),
		}
	}
	return attrs
}

func attributesToSession(
	attrs map[string]*dynamodb.AttributeValue,
) *types.Session {
	var session types.Session
	if attr, ok := attrs[types.KeyResetEmail]; ok && attr.S != nil {
		session.Email = *attr.S
	}
	if attr, ok := attrs[types.KeyVerifiedOTP]; ok && attr.S != nil {
		session.OTP = *attr.S
	}
	return &session
}

var _ types.SessionStore = &DynamoDBSessionStore{}
