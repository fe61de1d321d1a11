package typeid_test

import (
	"errors"
	"fmt"

	"github.com/weiawesome/prefixid/pkg/typeid"
)

type customer struct{ typeid.Width16 }

func (customer) Prefix() string { return "customer" }

type CustomerID = typeid.ID[customer]

type refund struct{ typeid.Width8 }

func (refund) Prefix() string { return "refund" }

func Example() {
	id, err := typeid.Parse[customer]("customer_01h2xcejqtf2nbrexx3vqjhp41")
	if err != nil {
		panic(err)
	}
	fmt.Println(id)
	fmt.Println(id.Prefix(), len(id.Bytes()))
	// Output:
	// customer_01h2xcejqtf2nbrexx3vqjhp41
	// customer 16
}

func ExampleParse_errors() {
	inputs := []string{
		"customer-01h2xcejqtf2nbrexx3vqjhp41",
		"customers_01h2xcejqtf2nbrexx3vqjhp41",
		"customer_01h2xcejqtf2nbrexx3vqjhpO1",
	}
	for _, s := range inputs {
		_, err := typeid.Parse[customer](s)
		switch {
		case errors.Is(err, typeid.ErrSeparatorMissing):
			fmt.Println("separator missing")
		case errors.Is(err, typeid.ErrPrefixMismatch):
			fmt.Println("wrong kind")
		default:
			fmt.Println(err)
		}
	}
	// Output:
	// separator missing
	// wrong kind
	// typeid: parse "customer_01h2xcejqtf2nbrexx3vqjhpO1": invalid payload: character outside alphabet at position 24
}

func ExampleFromUint64() {
	id, err := typeid.FromUint64[refund](1234567890)
	if err != nil {
		panic(err)
	}
	n, _ := id.Uint64()
	fmt.Println(id, n)
	// Output:
	// refund_00000014sc0pj 1234567890
}

func ExampleNew() {
	var id CustomerID
	id, err := typeid.New[customer]()
	if err != nil {
		panic(err)
	}
	fmt.Println(len(id.String()))
	// Output: 35
}
