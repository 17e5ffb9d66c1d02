package encryption

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

type KMSClient struct {
	client *kms.Client
	keyID  string
}

func NewKMSClient() (*KMSClient, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	keyID := os.Getenv("KMS_KEY_ID")
	if keyID == "" {
		return nil, fmt.Errorf("KMS_KEY_ID environment variable is required")
	}

	client := kms.NewFromConfig(cfg)
	return &KMSClient{
		client: client,
		keyID:  keyID,
	}, nil
}

var encryptionContext = map[string]string{
	"Purpose": "DecisionText-Encryption",
	"Service": "Dmood-Backend",
}

// EncryptText encrypts a decision's text using AWS KMS. The analytics
// core never reads text, so ciphertext is all the store ever holds.
func (k *KMSClient) EncryptText(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	input := &kms.EncryptInput{
		KeyId:             aws.String(k.keyID),
		Plaintext:         []byte(plaintext),
		EncryptionContext: encryptionContext,
	}

	result, err := k.client.Encrypt(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt text: %v", err)
	}

	// Return base64 encoded ciphertext
	return base64.StdEncoding.EncodeToString(result.CiphertextBlob), nil
}

// DecryptText decrypts a decision's text using AWS KMS.
func (k *KMSClient) DecryptText(ctx context.Context, ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	// Decode base64 ciphertext
	ciphertextBlob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %v", err)
	}

	input := &kms.DecryptInput{
		CiphertextBlob:    ciphertextBlob,
		EncryptionContext: encryptionContext,
	}

	result, err := k.client.Decrypt(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt text: %v", err)
	}

	return string(result.Plaintext), nil
}

// ValidateKMSKey validates that the KMS key exists and is accessible
func (k *KMSClient) ValidateKMSKey(ctx context.Context) error {
	input := &kms.DescribeKeyInput{
		KeyId: aws.String(k.keyID),
	}

	_, err := k.client.DescribeKey(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to validate KMS key %s: %v", k.keyID, err)
	}

	return nil
}
