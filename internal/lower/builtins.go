package lower

import "github.com/cwbudde/go-dws/internal/types"

// Builtin method signatures for String/Array/Range receivers, mirrored
// from internal/passes/typecheck's own seedBuiltins table (the two
// packages keep separate copies rather than sharing one, the same way
// every pass in this pipeline re-derives what it needs from the AST
// instead of reaching into another pass's state).

func sig(ret types.Type, params ...types.Type) methodInfo {
	return methodInfo{ParamTypes: params, RetType: ret, Access: types.Public}
}

func builtinStringMethods() map[string]methodInfo {
	return map[string]methodInfo{
		"concat":     sig(types.StringType, types.StringType),
		"length":     sig(types.IntType),
		"isEmpty":    sig(types.BoolType),
		"trim":       sig(types.StringType),
		"toLower":    sig(types.StringType),
		"toUpper":    sig(types.StringType),
		"index":      sig(types.IntType, types.StringType),
		"contains":   sig(types.BoolType, types.StringType),
		"startsWith": sig(types.BoolType, types.StringType),
		"endsWith":   sig(types.BoolType, types.StringType),
		"substring":  sig(types.StringType, types.IntType, types.IntType),
	}
}

func builtinArrayMethods() map[string]methodInfo {
	return map[string]methodInfo{
		"length":  sig(types.IntType),
		"isEmpty": sig(types.BoolType),
	}
}

func builtinRangeMethods() map[string]methodInfo {
	return map[string]methodInfo{
		"length": sig(types.IntType),
	}
}
