package xobj

import "encoding/binary"

// buildMinimalELF assembles a minimal ELF32 big-endian m68k relocatable
// object by hand, the way elf_writer.go in the teacher builds an ELF byte
// buffer field by field rather than shelling out to a linker. The layout
// mirrors spec §8's worked example: one text section with a single
// R_68K_32 relocation against a data symbol, one data section, one bss
// section, and an extra relocation against an absolute symbol that must
// be skipped (scenario S3).
//
// Section layout: [0]=NULL [1]=.text [2]=.data [3]=.bss [4]=.rela.text
// [5]=.symtab [6]=.strtab [7]=.shstrtab
func buildMinimalELF() []byte {
	be := binary.BigEndian

	text := []byte{0x4e, 0x71, 0x4e, 0x71, 0x4e, 0x71, 0x4e, 0x71} // 4 NOPs
	data := []byte{0x00, 0x00, 0x00, 0x2a}

	strtab := []byte("\x00target\x00abs_sym\x00")
	shstrtab := []byte("\x00.text\x00.data\x00.bss\x00.rela.text\x00.symtab\x00.strtab\x00.shstrtab\x00")

	// symtab: null, "target" (data, value 0x2000), "abs_sym" (SHN_ABS)
	symtab := make([]byte, 0, 16*3)
	symtab = append(symtab, make([]byte, 16)...) // null symbol
	sym1 := make([]byte, 16)
	be.PutUint32(sym1[0:4], 1) // st_name -> "target"
	be.PutUint32(sym1[4:8], 0x2000)
	be.PutUint32(sym1[8:12], 4)
	sym1[12] = 0x11 // STB_GLOBAL<<4 | STT_OBJECT
	be.PutUint16(sym1[14:16], 2) // st_shndx -> .data
	symtab = append(symtab, sym1...)
	sym2 := make([]byte, 16)
	be.PutUint32(sym2[0:4], 8) // st_name -> "abs_sym"
	be.PutUint32(sym2[4:8], 0xdead)
	sym2[12] = 0x10 // STB_GLOBAL<<4 | STT_NOTYPE
	be.PutUint16(sym2[14:16], 0xfff1) // SHN_ABS
	symtab = append(symtab, sym2...)

	// rela.text: one real reloc against "target", one against "abs_sym"
	rela := make([]byte, 0, 12*2)
	r0 := make([]byte, 12)
	be.PutUint32(r0[0:4], 0x1004)
	be.PutUint32(r0[4:8], (1<<8)|1) // sym index 1, R_68K_32
	rela = append(rela, r0...)
	r1 := make([]byte, 12)
	be.PutUint32(r1[0:4], 0x1000)
	be.PutUint32(r1[4:8], (2<<8)|1) // sym index 2, R_68K_32
	rela = append(rela, r1...)

	const ehSize = 52
	textOff := ehSize
	dataOff := textOff + len(text)
	relaOff := dataOff + len(data)
	symtabOff := relaOff + len(rela)
	strtabOff := symtabOff + len(symtab)
	shstrtabOff := strtabOff + len(strtab)
	shoff := shstrtabOff + len(shstrtab)

	buf := make([]byte, shoff+40*8)

	// ELF header
	copy(buf[0:4], []byte{0x7f, 'E', 'L', 'F'})
	buf[4] = 1 // ELFCLASS32
	buf[5] = 2 // ELFDATA2MSB
	buf[6] = 1 // EV_CURRENT
	be.PutUint16(buf[16:18], 1)       // ET_REL
	be.PutUint16(buf[18:20], 4)       // EM_68K
	be.PutUint32(buf[20:24], 1)       // e_version
	be.PutUint32(buf[24:28], 0x1000)  // e_entry
	be.PutUint32(buf[32:36], uint32(shoff))
	be.PutUint16(buf[40:42], ehSize)
	be.PutUint16(buf[46:48], 40) // e_shentsize
	be.PutUint16(buf[48:50], 8)  // e_shnum
	be.PutUint16(buf[50:52], 7)  // e_shstrndx

	copy(buf[textOff:], text)
	copy(buf[dataOff:], data)
	copy(buf[relaOff:], rela)
	copy(buf[symtabOff:], symtab)
	copy(buf[strtabOff:], strtab)
	copy(buf[shstrtabOff:], shstrtab)

	sh := func(i int, name, typ, flags uint32, addr, off, size, link, info, align, entsize uint32) {
		base := shoff + 40*i
		be.PutUint32(buf[base:base+4], name)
		be.PutUint32(buf[base+4:base+8], typ)
		be.PutUint32(buf[base+8:base+12], flags)
		be.PutUint32(buf[base+12:base+16], addr)
		be.PutUint32(buf[base+16:base+20], off)
		be.PutUint32(buf[base+20:base+24], size)
		be.PutUint32(buf[base+24:base+28], link)
		be.PutUint32(buf[base+28:base+32], info)
		be.PutUint32(buf[base+32:base+36], align)
		be.PutUint32(buf[base+36:base+40], entsize)
	}

	const (
		shtNull   = 0
		shtProg   = 1
		shtSymtab = 2
		shtStrtab = 3
		shtRela   = 4
		shtNobits = 8

		shfAlloc     = 2
		shfExecInstr = 4
	)

	sh(0, 0, shtNull, 0, 0, 0, 0, 0, 0, 0, 0)
	sh(1, 1, shtProg, shfAlloc|shfExecInstr, 0x1000, uint32(textOff), uint32(len(text)), 0, 0, 2, 0)
	sh(2, 7, shtProg, shfAlloc, 0x2000, uint32(dataOff), uint32(len(data)), 0, 0, 4, 0)
	sh(3, 13, shtNobits, shfAlloc, 0x3000, uint32(dataOff), 16, 0, 0, 4, 0)
	sh(4, 18, shtRela, 0, 0, uint32(relaOff), uint32(len(rela)), 5, 1, 4, 12)
	sh(5, 29, shtSymtab, 0, 0, uint32(symtabOff), uint32(len(symtab)), 6, 1, 4, 16)
	sh(6, 37, shtStrtab, 0, 0, uint32(strtabOff), uint32(len(strtab)), 0, 0, 1, 0)
	sh(7, 45, shtStrtab, 0, 0, uint32(shstrtabOff), uint32(len(shstrtab)), 0, 0, 1, 0)

	return buf
}
