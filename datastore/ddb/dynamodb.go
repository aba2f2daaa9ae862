/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/tomodakengo/kensa-sub001/errors"
)

const (
	// EntityType marks page items so List can tell them apart in a shared table.
	EntityType = "LocatorPage"

	pkPrefix   = "PAGE#"
	documentSK = "DOCUMENT"
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
}

// pageItem is the stored shape of one page document.
type pageItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Page       string `dynamodbav:"Page"`
	Document   string `dynamodbav:"Document"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// Store implements datastore.PageStore on a DynamoDB table, one item per page.
type Store struct {
	client    API
	tableName string
	now       func() time.Time
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when an access key is given, otherwise the default credential chain applies.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if awsAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg), nil
}

// New connects to DynamoDB and returns a Store for tableName.
func New(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, tableName string) (*Store, error) {
	if tableName == "" {
		return nil, errors.NewValidationError("tableName", "must not be empty")
	}
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewStore(client, tableName), nil
}

// NewStore wraps an existing client.
func NewStore(client API, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		now:       time.Now,
	}
}

// List returns the names of all stored pages, sorted.
func (d *Store) List(ctx context.Context) ([]string, error) {
	filter := "#et = :et"
	input := &sdk.ScanInput{
		TableName:            &d.tableName,
		FilterExpression:     &filter,
		ProjectionExpression: aws.String("#p"),
		ExpressionAttributeNames: map[string]string{
			"#et": "EntityType",
			"#p":  "Page",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":et": &types.AttributeValueMemberS{Value: EntityType},
		},
	}

	var pages []string
	paginator := sdk.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewIOError("scan", d.location(""), err)
		}
		for _, item := range out.Items {
			var pi pageItem
			if err := attributevalue.UnmarshalMap(item, &pi); err != nil {
				return nil, errors.NewIOError("scan", d.location(""), fmt.Errorf("failed to unmarshal item: %w", err))
			}
			if pi.Page != "" {
				pages = append(pages, pi.Page)
			}
		}
	}
	sort.Strings(pages)
	return pages, nil
}

// Load returns the stored document for page.
func (d *Store) Load(ctx context.Context, page string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       pageKey(page),
	})
	if err != nil {
		return nil, errors.NewIOError("get", d.location(page), err)
	}
	if len(out.Item) == 0 {
		return nil, errors.NewNotFoundError("page document", d.location(page))
	}

	var pi pageItem
	if err := attributevalue.UnmarshalMap(out.Item, &pi); err != nil {
		return nil, errors.NewIOError("get", d.location(page), fmt.Errorf("failed to unmarshal item: %w", err))
	}
	return []byte(pi.Document), nil
}

// Save writes the document for page, replacing any previous item.
func (d *Store) Save(ctx context.Context, page string, doc []byte) error {
	av, err := attributevalue.MarshalMap(pageItem{
		PK:         pkPrefix + page,
		SK:         documentSK,
		EntityType: EntityType,
		Page:       page,
		Document:   string(doc),
		UpdatedAt:  strfmt.DateTime(d.now().UTC()).String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal page item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return errors.NewIOError("put", d.location(page), err)
	}
	return nil
}

// Delete removes the item for page. A missing item is reported as NotFound.
func (d *Store) Delete(ctx context.Context, page string) error {
	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &d.tableName,
		Key:                 pageKey(page),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewNotFoundError("page document", d.location(page))
		}
		return errors.NewIOError("delete", d.location(page), err)
	}
	return nil
}

// location renders a table/key pair for error messages.
func (d *Store) location(page string) string {
	var b strings.Builder
	b.WriteString("dynamodb://")
	b.WriteString(d.tableName)
	if page != "" {
		b.WriteString("/")
		b.WriteString(pkPrefix)
		b.WriteString(page)
	}
	return b.String()
}

func pageKey(page string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pkPrefix + page},
		"SK": &types.AttributeValueMemberS{Value: documentSK},
	}
}
