// Package msl generates Metal Shading Language fragment functions.
//
// # Usage
//
//	ast, c, err := shaderc.Verify(source, "tint.shd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	code, info, err := msl.Compile(c, ast.EntryPoint(), msl.DefaultOptions())
//
// The fragment function is always named ps_main (info.EntryPoint).
//
// # Argument Table
//
// Metal has no global resources, so the entry point receives everything
// as arguments, in the slots the engine's Metal painter binds:
//
//	constant pl_SystemValues& pl_sv  [[buffer(0)]]   // viewport values
//	texture2d<float> pl_spriteImage  [[texture(0)]]
//	texture2d<float> pl_meshImage    [[texture(1)]]
//	sampler pl_sampler               [[sampler(0)]]
//	constant pl_Params& pl_params    [[buffer(4)]]   // shader parameters
//	texture2d<float> <user images>   [[texture(2)]], [[texture(3)]], ...
//
// Helper functions are inlined and receive the parameter buffer, the
// images and the sampler they read as trailing arguments.
package msl
