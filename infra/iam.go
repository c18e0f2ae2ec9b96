package main

import (
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const lambdaBasicExecutionPolicy = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

func assumeRolePolicy(ctx *pulumi.Context, service string) (string, error) {
	doc, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Effect: pulumi.StringRef("Allow"),
				Principals: []iam.GetPolicyDocumentStatementPrincipal{
					{
						Type:        "Service",
						Identifiers: []string{service},
					},
				},
				Actions: []string{"sts:AssumeRole"},
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}
	return doc.Json, nil
}

func allow(actions []string, resources ...string) iam.GetPolicyDocumentStatement {
	return iam.GetPolicyDocumentStatement{
		Effect:    pulumi.StringRef("Allow"),
		Actions:   actions,
		Resources: resources,
	}
}

func policyJSON(ctx *pulumi.Context, statements ...iam.GetPolicyDocumentStatement) (string, error) {
	doc, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: statements,
	}, nil)
	if err != nil {
		return "", err
	}
	return doc.Json, nil
}

// newLambdaRole creates an execution role with CloudWatch Logs access.
func newLambdaRole(ctx *pulumi.Context, name, assumeJSON string, opts ...pulumi.ResourceOption) (*iam.Role, error) {
	role, err := iam.NewRole(ctx, name, &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(assumeJSON),
	}, opts...)
	if err != nil {
		return nil, err
	}
	_, err = iam.NewRolePolicyAttachment(ctx, name+"-basic", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String(lambdaBasicExecutionPolicy),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return role, nil
}
