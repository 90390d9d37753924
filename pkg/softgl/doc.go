// Package softgl is a software implementation of the GPU contracts of
// package model. Textures live in memory with 8 bits per channel, shader
// programs are Go kernels registered on the Device under the shader name,
// and a rendering pass runs the kernel on every pixel, splitting the rows
// in bands processed concurrently.
//
// It is meant for tests, tooling and machines without a GPU.
package softgl
