package dsl

// Template is a named starter definition shipped with the application.
// Content is the canonical YAML text, kept as text so loading a template
// exercises the same parse path as user input.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Templates returns the built-in starter definitions in display order.
func Templates() []Template {
	return builtinTemplates
}

// TemplateByID looks up a built-in template.
func TemplateByID(id string) (Template, bool) {
	for _, t := range builtinTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

var builtinTemplates = []Template{
	{
		ID:   "api-gateway-microservices",
		Name: "API Gateway + Microservices",
		Content: `components:
  - id: user
    name: End User
    type: actor
  - id: api_gateway
    name: API Gateway
    type: service
  - id: auth_service
    name: Auth Microservice
    type: service
  - id: user_db
    name: User Database
    type: datastore
  - id: product_service
    name: Product Microservice
    type: service
  - id: product_db
    name: Product Database
    type: datastore

data_flows:
  - from: user
    to: api_gateway
    label: "HTTPS Request"
  - from: api_gateway
    to: auth_service
    label: "Validates token"
  - from: auth_service
    to: user_db
    label: "Reads user data"
  - from: api_gateway
    to: product_service
    label: "Forwards request"
  - from: product_service
    to: product_db
    label: "Reads/Writes product data"

trust_boundaries:
  - id: internet
    label: "Public Internet"
    components: [user]
  - id: dmz
    label: "DMZ"
    components: [api_gateway]
  - id: private_network
    label: "Private VPC"
    components:
      - auth_service
      - user_db
      - product_service
      - product_db
`,
	},
	{
		ID:   "simple-web-app",
		Name: "Simple Web App",
		Content: `components:
  - id: user
    name: User
    type: actor
  - id: web_app
    name: Monolithic Web App
    type: service
  - id: database
    name: SQL Database
    type: datastore
  - id: cdn
    name: CDN
    type: service

data_flows:
  - from: user
    to: cdn
    label: "Loads static assets"
  - from: user
    to: web_app
    label: "HTTP/S requests"
  - from: web_app
    to: database
    label: "Reads/writes user data"

trust_boundaries:
  - id: public
    label: "Public Access"
    components: [user, cdn]
  - id: private
    label: "Application Network"
    components: [web_app, database]
`,
	},
	{
		ID:   "serverless-web-app",
		Name: "Serverless Web Application",
		Content: `components:
  - id: user
    name: User
    type: actor
  - id: cdn
    name: CDN (CloudFront)
    type: service
  - id: s3_bucket
    name: S3 Bucket (Static Site)
    type: datastore
  - id: api_gateway
    name: API Gateway
    type: service
  - id: cognito
    name: Cognito User Pool
    type: service
  - id: lambda_function
    name: Lambda Function (Backend)
    type: service
  - id: dynamodb
    name: DynamoDB Table
    type: datastore

data_flows:
  - from: user
    to: cdn
    label: "Loads static frontend"
  - from: cdn
    to: s3_bucket
    label: "Serves static content"
  - from: user
    to: api_gateway
    label: "API Calls"
  - from: api_gateway
    to: cognito
    label: "Authenticates user"
  - from: api_gateway
    to: lambda_function
    label: "Invokes function"
  - from: lambda_function
    to: dynamodb
    label: "Reads/Writes data"

trust_boundaries:
  - id: public
    label: "Public Internet"
    components: [user]
  - id: aws_edge
    label: "AWS Edge Network"
    components: [cdn, api_gateway, cognito]
  - id: aws_private
    label: "AWS Private VPC"
    components: [lambda_function, dynamodb, s3_bucket]
`,
	},
}
