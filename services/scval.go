package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/stellarpay/wallet-core/models"
)

// scAddressFromString builds an ScAddress from either an account
// address (G...) or a contract address (C...).
func scAddressFromString(s string) (xdr.ScAddress, error) {
	if strkey.IsValidEd25519PublicKey(s) {
		accountID, err := xdr.AddressToAccountId(s)
		if err != nil {
			return xdr.ScAddress{}, &models.ValidationError{Field: "address", Reason: "not a valid account address"}
		}
		return xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &accountID,
		}, nil
	}

	raw, err := strkey.Decode(strkey.VersionByteContract, s)
	if err != nil || len(raw) != 32 {
		return xdr.ScAddress{}, &models.ValidationError{Field: "address", Reason: "not a valid account or contract address"}
	}
	var hash xdr.Hash
	copy(hash[:], raw)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &hash,
	}, nil
}

// scValFromArg converts one typed API argument into its host value.
// Monetary values use the i128 type and are scaled to stroops with
// truncation.
func scValFromArg(arg models.ContractArg) (xdr.ScVal, error) {
	switch strings.ToLower(arg.Type) {
	case "address":
		addr, err := scAddressFromString(arg.Value)
		if err != nil {
			return xdr.ScVal{}, err
		}
		return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil

	case "i128":
		parts, err := scaledI128(arg.Value)
		if err != nil {
			return xdr.ScVal{}, err
		}
		return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}, nil

	case "u64":
		n, err := strconv.ParseUint(arg.Value, 10, 64)
		if err != nil {
			return xdr.ScVal{}, &models.ValidationError{Field: "args", Reason: "u64 value out of range"}
		}
		v := xdr.Uint64(n)
		return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &v}, nil

	case "i64":
		n, err := strconv.ParseInt(arg.Value, 10, 64)
		if err != nil {
			return xdr.ScVal{}, &models.ValidationError{Field: "args", Reason: "i64 value out of range"}
		}
		v := xdr.Int64(n)
		return xdr.ScVal{Type: xdr.ScValTypeScvI64, I64: &v}, nil

	case "u32":
		n, err := strconv.ParseUint(arg.Value, 10, 32)
		if err != nil {
			return xdr.ScVal{}, &models.ValidationError{Field: "args", Reason: "u32 value out of range"}
		}
		v := xdr.Uint32(n)
		return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &v}, nil

	case "symbol":
		if len(arg.Value) > 32 {
			return xdr.ScVal{}, &models.ValidationError{Field: "args", Reason: "symbol longer than 32 characters"}
		}
		v := xdr.ScSymbol(arg.Value)
		return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &v}, nil

	case "string":
		v := xdr.ScString(arg.Value)
		return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &v}, nil

	case "bool":
		v, err := strconv.ParseBool(arg.Value)
		if err != nil {
			return xdr.ScVal{}, &models.ValidationError{Field: "args", Reason: "bool must be true or false"}
		}
		return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &v}, nil

	default:
		return xdr.ScVal{}, &models.ValidationError{Field: "args", Reason: "unsupported argument type " + arg.Type}
	}
}

// renderScVal is the inverse of scValFromArg: it renders a host value
// as its API type/value pair. i128 values descale to token strings.
func renderScVal(v xdr.ScVal) (string, string, error) {
	switch v.Type {
	case xdr.ScValTypeScvBool:
		return "bool", strconv.FormatBool(*v.B), nil
	case xdr.ScValTypeScvVoid:
		return "void", "", nil
	case xdr.ScValTypeScvU32:
		return "u32", strconv.FormatUint(uint64(*v.U32), 10), nil
	case xdr.ScValTypeScvU64:
		return "u64", strconv.FormatUint(uint64(*v.U64), 10), nil
	case xdr.ScValTypeScvI64:
		return "i64", strconv.FormatInt(int64(*v.I64), 10), nil
	case xdr.ScValTypeScvI128:
		return "i128", i128ToDecimal(*v.I128), nil
	case xdr.ScValTypeScvSymbol:
		return "symbol", string(*v.Sym), nil
	case xdr.ScValTypeScvString:
		return "string", string(*v.Str), nil
	case xdr.ScValTypeScvAddress:
		switch v.Address.Type {
		case xdr.ScAddressTypeScAddressTypeAccount:
			return "address", v.Address.AccountId.Address(), nil
		case xdr.ScAddressTypeScAddressTypeContract:
			encoded, err := strkey.Encode(strkey.VersionByteContract, v.Address.ContractId[:])
			if err != nil {
				return "", "", err
			}
			return "address", encoded, nil
		}
		return "", "", errors.New("unsupported address type in return value")
	default:
		return "", "", errors.New("unsupported return value type " + v.Type.String())
	}
}
