package blobstore

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	// PublicURL is the base URL blobs are served from. Defaults to the endpoint or the AWS virtual host.
	PublicURL string `yaml:"publicUrl"`
}

type Config struct {
	Type         string   `yaml:"type"`
	Root         string   `yaml:"root"`
	PublicPrefix string   `yaml:"publicPrefix"`
	S3           S3Config `yaml:"s3"`
}
